package services

import (
	portsrepo "github.com/hroffice/gl_backend/internal/core/ports/repositories"
	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
)

// NewServiceContainer wires the repository provider into a fully connected
// service container. The audit chain comes first since every other service
// appends to it, and the posting coordinator sits between the journal and
// budget services so budget ownership is resolved in exactly one place.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	auditSvc := NewAuditService(repos.AuditRepo)
	accountSvc := NewAccountService(repos.AccountRepo, auditSvc)
	costCenterSvc := NewCostCenterService(repos.CostCenterRepo, auditSvc)
	budgetSvc := NewBudgetService(repos.BudgetRepo, repos.AccountRepo, auditSvc)
	closingSvc := NewClosingService(repos.ClosingRepo, auditSvc)

	coordinator := NewPostingCoordinator(repos.JournalRepo, budgetSvc, auditSvc)
	journalSvc := NewJournalService(JournalServiceDeps{
		AccountSvc:  accountSvc,
		BudgetSvc:   budgetSvc,
		ClosingSvc:  closingSvc,
		AuditSvc:    auditSvc,
		Coordinator: coordinator,
	})

	return &portssvc.ServiceContainer{
		Account:    accountSvc,
		CostCenter: costCenterSvc,
		Journal:    journalSvc,
		Budget:     budgetSvc,
		Audit:      auditSvc,
		Closing:    closingSvc,
	}
}
