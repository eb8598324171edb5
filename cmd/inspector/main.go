// Command inspector dumps the local fallback state: override patches,
// local activity logs and locally created clients. Useful when debugging
// why a client view shows a value the backend does not have.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fes-crm/clientgate/internal/format"
	"github.com/fes-crm/clientgate/internal/kv"
	"github.com/fes-crm/clientgate/internal/localstore"
)

func main() {
	dataDir := flag.String("data", "./data", "local store directory")
	clientID := flag.Int64("client", 0, "inspect one client id (0 = all local clients)")
	flag.Parse()

	store, err := kv.NewFileStore(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}

	overrides := localstore.NewOverrideStore(store)
	activity := localstore.NewActivityLogStore(store)
	locals := localstore.NewClientStore(store)

	if *clientID != 0 {
		inspectClient(*clientID, overrides, activity)
		return
	}

	fmt.Println("--- Local Clients ---")
	for _, c := range locals.GetAll() {
		fmt.Printf("%s %s (%s) status=%s risk=%s\n",
			format.ClientNumber(c.ID), c.Name(), c.AccountID,
			format.StatusLabel(c.Status), format.RiskLabel(c.RiskLevel))
		inspectClient(c.ID, overrides, activity)
	}
}

func inspectClient(id int64, overrides *localstore.OverrideStore, activity *localstore.ActivityLogStore) {
	ov := overrides.Load(id)
	if len(ov) > 0 {
		fmt.Printf("\n--- Overrides for %s ---\n", format.ClientNumber(id))
		for field, value := range ov {
			fmt.Printf("  %s = %q\n", field, value)
		}
	}

	log := activity.Load(id)
	if len(log) > 0 {
		fmt.Printf("\n--- Local Activity for %s ---\n", format.ClientNumber(id))
		for _, line := range log {
			fmt.Printf("  %s\n", line)
		}
	}
}
