package services

import (
	portsrepo "github.com/bizbooks/bizbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks/bizbooks_backend/internal/realtime"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. The notification store is shared between the bank service
// (which publishes) and the realtime hub (which broadcasts).
func NewServiceContainer(repos portsrepo.RepositoryProvider, notifications *realtime.Store) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.JournalRepo)
	container.Journal = NewJournalService(repos.JournalRepo, container.Account)
	container.Bank = NewBankService(repos.BankRepo, notifications)
	container.User = NewUserService(repos.UserRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.JournalSvcFacade = (*journalService)(nil)
	_ portssvc.BankSvcFacade    = (*bankService)(nil)
	_ portssvc.UserSvcFacade    = (*userService)(nil)
	_ portssvc.ReportingService = (*reportingService)(nil)
)
