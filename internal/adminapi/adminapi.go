// Package adminapi exposes the store session over HTTP.
package adminapi

import "sync"

var initOnce sync.Once

// Init registers every admin api route with the webserver. It must run
// before webserver.NewAdminServer.
func Init() {
	initOnce.Do(func() {
		registerProductRoutes()
		registerCartRoutes()
		registerSalesRoutes()
		registerExpenseRoutes()
		registerDashboardRoutes()
		registerReportRoutes()
		registerSystemRoutes()
	})
}
