package main

import (
	"nestbook/internal/gateway/handler"
	"nestbook/internal/gateway/service"
	"nestbook/pkg/app"
	"nestbook/pkg/config"
)

const ServiceName = "gateway"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetServiceClients()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Gateway service")

	gatewayService := service.NewGatewayService(cfg.Client, cfg.Log)
	flowHandler := handler.NewFlowHandler(gatewayService, cfg.Log)
	cfg.Log.Info("Gateway initialized", "flows", gatewayService.AvailableFlows())

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(flowHandler)
	serverApp.Run()
}
