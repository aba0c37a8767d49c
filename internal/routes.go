package internal

import (
	"net/http"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/controllers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
)

func InitRoutes(injectorController *controllers.InjectorController, adminController *controllers.AdminController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/watchlist", http.HandlerFunc(injectorController.GetWatchList))
	routers.Get("/account", http.HandlerFunc(injectorController.GetAccount))
	routers.Get("/ready", http.HandlerFunc(injectorController.GetReady))
	routers.Get("/balances/match", http.HandlerFunc(injectorController.GetBalancesMatch))
	routers.Get("/config", http.HandlerFunc(injectorController.GetSettings))
	routers.Get("/history", http.HandlerFunc(injectorController.GetHistory))
	routers.Get("/upkeep/check", http.HandlerFunc(injectorController.CheckUpkeep))
	routers.Post("/upkeep/perform", http.HandlerFunc(injectorController.PerformUpkeep))

	routers.Post("/recipients", http.HandlerFunc(adminController.SetRecipientList))
	routers.Post("/recipients/validated", http.HandlerFunc(adminController.SetValidatedRecipientList))
	routers.Post("/pause", http.HandlerFunc(adminController.Pause))
	routers.Post("/unpause", http.HandlerFunc(adminController.Unpause))
	routers.Post("/sweep", http.HandlerFunc(adminController.Sweep))
	routers.Post("/distributor/reset", http.HandlerFunc(adminController.SetDistributorToOwner))
	routers.Post("/deposit/manual", http.HandlerFunc(adminController.ManualDeposit))
	routers.Post("/keeper", http.HandlerFunc(adminController.SetKeeperAddress))
	routers.Post("/min-wait", http.HandlerFunc(adminController.SetMinWaitPeriod))
	return routers
}
