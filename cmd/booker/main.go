package main // booker is the terminal client for the seat gateway

import (
	"os"

	"github.com/iliyamo/seat-booking/internal/config"
)

func main() {
	config.LoadDotEnv() // GATEWAY_URL / GATEWAY_TIMEOUT may come from .env
	if err := newRootCmd(config.LoadGatewayConfig(), os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
