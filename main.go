package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	webview "github.com/webview/webview_go"
	"go.uber.org/zap"

	"github.com/kartoza/credit-risk/internal/artifacts"
	"github.com/kartoza/credit-risk/internal/config"
	"github.com/kartoza/credit-risk/internal/logging"
	"github.com/kartoza/credit-risk/internal/metrics"
	"github.com/kartoza/credit-risk/internal/pipeline"
	"github.com/kartoza/credit-risk/internal/server"
)

var version = "dev"

const defaultArtifactsPath = "./artifacts"

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid environment: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment
	port := flag.Int("port", cfg.Port, "HTTP server port")
	artifactsPath := flag.String("artifacts", cfg.ArtifactsPath, "Artifact directory or .bundle file with the model and encoders")
	headless := flag.Bool("headless", cfg.Headless, "Run in headless mode (no GUI window)")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", cfg.LogFormat, "Log format (console or json)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Credit Risk v%s\n", version)
		os.Exit(0)
	}

	logger, err := logging.New(*logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	settingsPath, err := config.SettingsPath()
	if err != nil {
		logger.Warn("settings unavailable", zap.Error(err))
	}
	resolved, explicit := resolveArtifactsPath(logger, *artifactsPath, settingsPath)

	p, err := loadPipeline(resolved)
	if err != nil {
		logger.Fatal("failed to load artifacts", zap.String("path", resolved), zap.Error(err))
	}
	logger.Info("artifacts loaded",
		zap.String("path", resolved),
		zap.String("model_kind", p.ModelKind()),
		zap.Strings("schema", p.Schema()),
	)

	// An explicit location is a one-off override and is not remembered
	if !explicit && settingsPath != "" {
		rememberArtifactsPath(logger, settingsPath, resolved)
	}

	// Find an available port (try up to 10 ports starting from the requested one)
	availablePort, err := findAvailablePort(*port, 10)
	if err != nil {
		logger.Fatal("failed to find available port", zap.Error(err))
	}
	if availablePort != *port {
		logger.Info("port in use, using next free port", zap.Int("requested", *port), zap.Int("port", availablePort))
	}

	cfg.Port = availablePort
	cfg.ArtifactsPath = resolved
	cfg.Headless = *headless
	cfg.LogLevel = *logLevel
	cfg.LogFormat = *logFormat
	cfg.Version = version

	logger.Info("credit risk starting", zap.String("version", version), zap.Int("port", cfg.Port))

	srv, err := server.New(cfg, p, logger, metrics.New())
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
	waitForServer(logger, serverURL, 10*time.Second)

	if cfg.Headless {
		select {
		case err := <-errCh:
			if err != nil {
				logger.Fatal("server error", zap.Error(err))
			}
		case sig := <-stop:
			logger.Info("shutting down", zap.Stringer("signal", sig))
			if err := srv.Stop(); err != nil {
				logger.Error("error during shutdown", zap.Error(err))
			}
		}
		return
	}

	// GUI mode: open embedded WebView window
	logger.Info("opening application window")
	w := webview.New(false)
	defer w.Destroy()

	w.SetTitle("Credit Risk Prediction")
	w.SetSize(720, 900, webview.HintNone)
	w.Navigate(serverURL)

	go func() {
		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("server error", zap.Error(err))
			}
		case sig := <-stop:
			logger.Info("shutting down", zap.Stringer("signal", sig))
			w.Terminate()
		}
	}()

	// Run blocks until the window is closed
	w.Run()

	logger.Info("window closed, shutting down server")
	if err := srv.Stop(); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
}

// resolveArtifactsPath picks the artifacts location:
//  1. explicit flag or environment value
//  2. otherwise the last location that loaded successfully
//  3. otherwise ./artifacts
//
// The second result reports whether the location was given explicitly.
func resolveArtifactsPath(logger *zap.Logger, explicit, settingsPath string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}

	if settingsPath != "" {
		settings, err := config.LoadSettings(settingsPath)
		if err != nil {
			logger.Warn("could not load settings", zap.Error(err))
		} else if settings.ArtifactsPath != "" {
			if _, err := os.Stat(settings.ArtifactsPath); err == nil {
				logger.Info("using remembered artifacts", zap.String("path", settings.ArtifactsPath))
				return settings.ArtifactsPath, false
			}
			logger.Warn("remembered artifacts path no longer exists", zap.String("path", settings.ArtifactsPath))
		}
	}

	return defaultArtifactsPath, false
}

// rememberArtifactsPath stores the absolute form of path as the next default
func rememberArtifactsPath(logger *zap.Logger, settingsPath, path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if err := config.SaveSettings(settingsPath, config.Settings{ArtifactsPath: path}); err != nil {
		logger.Warn("could not save settings", zap.Error(err))
	}
}

// loadPipeline reads every artifact once. The source is closed afterwards
// since the pipeline keeps no reference to it.
func loadPipeline(path string) (*pipeline.Pipeline, error) {
	src, err := artifacts.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return pipeline.Load(src)
}

// waitForServer polls until the server is accepting connections
func waitForServer(logger *zap.Logger, url string, timeout time.Duration) {
	addr := url[len("http://"):]
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	logger.Warn("server may not be ready", zap.String("url", url))
}

// findAvailablePort finds an available port, starting from the given port.
func findAvailablePort(startPort int, maxAttempts int) (int, error) {
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port found after %d attempts starting from %d", maxAttempts, startPort)
}
