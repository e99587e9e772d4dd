// Package jobs provides scheduled background tasks.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field and skip a tick
// while the previous run is still going.
//
// # Available Jobs
//
// OrderDispatchJob takes the oldest pending orders and requests automatic
// assignment for each, acting as a system dispatcher. A pass stops at the
// first order no driver can take; conflicts with concurrent manual
// assignment are ignored.
//
// # Usage
//
//	dispatchJob := jobs.NewOrderDispatchJob(orders, assignHandler, systemActor, "*/15 * * * * *", 20, logger)
//	manager := jobs.NewJobManager(dispatchJob)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
package jobs
