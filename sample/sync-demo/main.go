package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/leadgrid/internal/leadsync"
)

// Drives the sync layer against a running API: logs in, fetches the lead
// list, fires three rapid debounced edits on the first lead (which must
// coalesce into a single write) and appends one history note.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found, using system environment")
	}

	baseURL := os.Getenv("LEADGRID_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000/api"
	}

	ctx := context.Background()
	api := leadsync.NewAPIClient(baseURL)

	fmt.Println("🔐 Logging in...")
	if err := api.Login(ctx, os.Getenv("DEMO_ACCESS_ID"), os.Getenv("DEMO_PASSWORD")); err != nil {
		log.Fatalf("❌ Login failed: %v", err)
	}

	syncer := leadsync.NewSyncer(api, 800*time.Millisecond)
	syncer.OnChange = func() {
		fmt.Println("   📥 local list changed")
	}

	if err := syncer.Refresh(ctx); err != nil {
		log.Fatalf("❌ Fetch failed: %v", err)
	}

	leads := syncer.Leads()
	fmt.Printf("✅ %d leads loaded\n", len(leads))
	if len(leads) == 0 {
		fmt.Println("Nothing to edit, done.")
		return
	}

	target := leads[0]
	fmt.Printf("✏️  Editing %q (%s)\n", target.Name, target.ID)

	// Three keystroke-speed edits: only the last value reaches the sheet.
	syncer.UpdateDebounced(ctx, target.ID, map[string]interface{}{"remarks": "C"})
	syncer.UpdateDebounced(ctx, target.ID, map[string]interface{}{"remarks": "Ca"})
	syncer.UpdateDebounced(ctx, target.ID, map[string]interface{}{"remarks": "Called, asked to ring back"})
	fmt.Printf("   status after edits: %v (scheduled)\n", syncer.Status(target.ID))

	time.Sleep(2 * time.Second)
	fmt.Printf("   status after debounce: %v (written)\n", syncer.Status(target.ID))

	fmt.Println("📝 Appending a call note (writes immediately)...")
	if err := syncer.AppendNote(ctx, target.ID, "Demo note from sync-demo"); err != nil {
		log.Fatalf("❌ Note failed: %v", err)
	}

	updated, _ := syncer.Lead(target.ID)
	fmt.Printf("✅ Done. %q now has %d history entries\n", updated.Name, len(updated.CallHistory))
}
