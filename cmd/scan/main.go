package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"alfredoptarigan/ats-scanner/internal/client"
	"alfredoptarigan/ats-scanner/internal/config"
	"alfredoptarigan/ats-scanner/internal/export"
	"alfredoptarigan/ats-scanner/internal/models"
	"alfredoptarigan/ats-scanner/internal/presentation"
	"alfredoptarigan/ats-scanner/internal/tui"
	"alfredoptarigan/ats-scanner/internal/upload"
	"alfredoptarigan/ats-scanner/internal/workflow"
)

func main() {
	jd := flag.String("jd", "", "job description filename to scan against")
	headless := flag.Bool("headless", false, "run one scan without the interactive screen")
	exportPath := flag.String("export", "", "write the scan result to this xlsx file")
	uploadDir := flag.String("upload", "", "upload every résumé in this directory before scanning")
	flag.Parse()

	cfg := config.Load()
	api := client.NewClient(cfg.Client.APIBaseURL, cfg.Client.RequestTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *uploadDir != "" {
		if err := uploadDirectory(ctx, api, cfg, *uploadDir); err != nil {
			log.Fatalf("❌ Upload failed: %v", err)
		}
	}

	if !*headless {
		exportDir := "."
		if *exportPath != "" {
			exportDir = filepath.Dir(*exportPath)
		}
		err := tui.Run(ctx, api, tui.Options{
			BaseURL:     cfg.Client.APIBaseURL,
			SettleDelay: cfg.Client.SettleDelay,
			ExportDir:   exportDir,
			InitialJD:   models.JDDescriptor(*jd),
			LogFile:     cfg.Client.LogFile,
		})
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		return
	}

	if err := runHeadless(ctx, api, cfg, models.JDDescriptor(*jd), *exportPath); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// runHeadless drives the same workflow the interactive screen uses and
// prints the settled result.
func runHeadless(ctx context.Context, api client.Client, cfg *config.Config, jd models.JDDescriptor, exportPath string) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctrl := workflow.NewController(workflow.NewState(cfg.Client.SettleDelay), workflow.NewExecutor(runCtx, api))
	done := make(chan error, 1)
	go func() { done <- ctrl.Run(runCtx) }()
	defer func() {
		cancel()
		<-done
	}()

	ctrl.Dispatch(workflow.Mounted{})
	state, err := ctrl.WaitFor(runCtx, func(s workflow.State) bool { return s.JDList.Loaded })
	if err != nil {
		return fmt.Errorf("failed to load job descriptions: %w", err)
	}
	if state.JDList.Error != "" {
		return fmt.Errorf("failed to load job descriptions: %s", state.JDList.Error)
	}

	if jd == "" {
		fmt.Println("Available job descriptions (pass one with -jd):")
		for _, id := range state.JDList.Data {
			fmt.Printf("  %s\n", id)
		}
		return nil
	}

	ctrl.Dispatch(workflow.OpenPicker{})
	ctrl.Dispatch(workflow.Select{ID: jd})
	ctrl.Dispatch(workflow.Confirm{})
	log.Printf("🚀 Scanning against %s\n", jd)

	state, err = ctrl.WaitFor(runCtx, func(s workflow.State) bool {
		return s.Scan.Phase.Settled() || s.Scan.ErrorKind == workflow.ErrKindValidation
	})
	if err != nil {
		return fmt.Errorf("scan interrupted: %w", err)
	}

	view := presentation.Build(state.Scan.Result, cfg.Client.APIBaseURL)
	printView(view, state)

	if exportPath != "" && view.HasResult {
		path, err := export.WriteXLSX(view, exportPath, time.Now())
		if err != nil {
			return err
		}
		log.Printf("✅ Exported results to %s\n", path)
	}

	if state.Scan.Phase == workflow.PhaseSettledFailure || state.Scan.ErrorKind == workflow.ErrKindValidation {
		return fmt.Errorf("scan failed: %s", state.Scan.Error)
	}
	return nil
}

func printView(view presentation.View, state workflow.State) {
	if banner := state.Banner(); banner.Kind != workflow.BannerNone {
		fmt.Println(banner.Text)
	}
	if state.Scan.Anomaly != "" {
		fmt.Println("warning:", state.Scan.Anomaly)
	}
	if s := view.Summary; s.Present {
		fmt.Printf("%d found, %d scanned, %d errors in %.2fs\n", s.TotalFound, s.Scanned, s.Errors, s.DurationSeconds)
	}
	for _, c := range view.Cards {
		fmt.Printf("#%d %-24s %6.2f%%  %-15s %s\n", c.Rank, c.Name, c.Score, c.Tier.Label, c.DownloadURL)
	}
	for _, e := range view.Errors {
		fmt.Println("error:", e)
	}
}

func uploadDirectory(ctx context.Context, api client.Client, cfg *config.Config, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read upload directory: %w", err)
	}

	session := upload.NewSession(api, upload.Options{
		Scope:             upload.ParseRetryScope(cfg.Client.UploadRetryScope),
		AllowedExtensions: cfg.Storage.AllowedExtensions,
		MaxFileSize:       cfg.Storage.MaxFileSize,
	})

	var files []client.UploadFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		files = append(files, client.UploadFile{Filename: entry.Name(), Content: content})
	}
	log.Println(session.Add(files...).Text)

	msg := session.Save(ctx)
	log.Println(msg.Text)
	if msg.Kind == upload.MessageWarning && len(session.Staged()) > 0 {
		log.Printf("🔄 Retrying %d file(s)\n", len(session.Staged()))
		msg = session.Save(ctx)
		log.Println(msg.Text)
	}
	if msg.Kind == upload.MessageError {
		return fmt.Errorf("%s", msg.Text)
	}
	return nil
}
