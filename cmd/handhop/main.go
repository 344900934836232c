package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ayusman/handhop/internal/app"
	"github.com/ayusman/handhop/internal/config"
	"github.com/ayusman/handhop/internal/server"
	"github.com/ayusman/handhop/internal/store"
	"github.com/ayusman/handhop/internal/tray"
)

func main() {
	fmt.Println("HandHop - Jump With Your Hand")

	cfg := config.Load()

	// Initialize the store
	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".handhop")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "handhop.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Build the game application
	a := app.New(app.Config{
		Store:        st,
		CameraID:     cfg.CameraID,
		MotionThresh: cfg.MotionThresh,
	})

	if err := a.Start(); err != nil {
		// Keep the server and history UI available even without a camera.
		log.Printf("Pipeline not started: %v", err)
	} else {
		a.SetEnabled(loadEnabled(st))
		defer a.Stop()
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start server
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		Game:      a,
	})

	addr := ":" + cfg.Port
	url := "http://localhost" + addr
	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wire up the tray. Run blocks until Quit is chosen.
	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		saveEnabled(st, enabled)
	})
	t.OnOpenUI(func() { openBrowser(url) })
	t.OnQuit(a.Stop)

	go refreshBestScore(t, a)

	t.Run()
}

// enabledKey is the settings key persisting the camera toggle across runs.
const enabledKey = "camera_enabled"

// loadEnabled returns the persisted camera toggle, defaulting to on.
func loadEnabled(st *store.Store) bool {
	v, err := st.Settings().Get(enabledKey)
	if err != nil {
		return true
	}
	return v != "false"
}

// saveEnabled persists the camera toggle.
func saveEnabled(st *store.Store, enabled bool) {
	v := "true"
	if !enabled {
		v = "false"
	}
	if err := st.Settings().Set(enabledKey, v); err != nil {
		log.Printf("Failed to save setting: %v", err)
	}
}

// refreshBestScore keeps the tray's best-score entry in sync with the
// database.
func refreshBestScore(t *tray.Tray, a *app.App) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		best, err := a.BestScore()
		if err != nil {
			continue
		}
		t.SetBestScore(best)
	}
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.handhop/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".handhop", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
