// Command aflctl loads the AFL datasets outside the service and prints the
// derived dashboard views as JSON.
//
// Usage:
//
//	aflctl load --data-dir ./data
//	aflctl team COLL --season 2025 --compare CARL
//	aflctl player CD_I1000 --outlook optimistic
//	aflctl route "/player/CD_I1000?season=2024"
//	aflctl parse ./data/team_kpis.csv
//	aflctl schema team_kpis
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
