// Command dexpaprika-proxy serves the DexPaprika API through the caching,
// retrying client and exposes its Prometheus metrics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dexpaprika/dexpaprika-go/pkg/client"
	"github.com/dexpaprika/dexpaprika-go/pkg/logging"
	"github.com/dexpaprika/dexpaprika-go/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// config is the proxy configuration file layout.
type config struct {
	Port    string         `yaml:"port"`
	Logging logging.Config `yaml:"logging"`
	Client  client.Config  `yaml:"client"`
}

func main() {
	// A missing .env file is fine; real env vars still apply.
	_ = godotenv.Load()

	cfg, err := loadConfig(getEnv("CONFIG_FILE", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging)
	logger := logging.NewLogger("dexpaprika-proxy")

	dexClient, err := client.New(cfg.Client)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create DexPaprika client")
	}
	defer dexClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newMux(dexClient, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	logger.Info().
		Str("addr", server.Addr).
		Str("base_url", dexClient.BaseURL()).
		Str("user_agent", cfg.Client.UserAgent).
		Msg("Starting DexPaprika proxy server")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Server failed")
	}
	logger.Info().Msg("Server stopped")
}

// loadConfig builds the configuration from defaults, an optional YAML file
// and environment overrides, in that order.
func loadConfig(path string) (config, error) {
	cfg := config{
		Port:    "8080",
		Logging: logging.DefaultConfig(),
		Client:  client.DefaultConfig(),
	}

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to open config file %s: %w", path, err)
		}
		defer file.Close()

		if err := decodeConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Client.BaseURL = getEnv("DEXPAPRIKA_BASE_URL", cfg.Client.BaseURL)
	cfg.Client.UserAgent = getEnv("USER_AGENT", cfg.Client.UserAgent)
	cfg.Logging.Level = logging.LogLevel(getEnv("LOG_LEVEL", string(cfg.Logging.Level)))
	cfg.Logging.Pretty = getEnv("LOG_PRETTY", fmt.Sprint(cfg.Logging.Pretty)) == "true"

	return cfg, nil
}

// decodeConfig parses YAML over cfg. Environment variables in the format
// ${VAR_NAME} are expanded before parsing.
func decodeConfig(r io.Reader, cfg *config) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	expanded := os.ExpandEnv(string(content))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

func newMux(dexClient client.Requester, logger zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/api/", apiProxyHandler(dexClient, logger))
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func apiProxyHandler(dexClient client.Requester, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}

		// Example: /api/networks/ethereum/pools?limit=5 -> /networks/ethereum/pools
		endpoint := strings.TrimPrefix(r.URL.Path, "/api")
		if endpoint == "" || endpoint == "/" {
			writeError(w, http.StatusNotFound, "endpoint is required", "")
			return
		}

		params := lo.MapValues(r.URL.Query(), func(values []string, _ string) any {
			if len(values) == 1 {
				return values[0]
			}
			return values
		})

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		data, err := dexClient.Get(ctx, endpoint, params)
		if err != nil {
			status, kind := http.StatusBadGateway, ""
			var dexErr *client.Error
			if errors.As(err, &dexErr) {
				kind = string(dexErr.Kind)
				if dexErr.StatusCode >= 400 && dexErr.StatusCode < 500 {
					status = dexErr.StatusCode
				}
			}
			logger.Warn().
				Err(err).
				Str("endpoint", endpoint).
				Int("status_code", status).
				Msg("Proxy request failed")
			writeError(w, status, err.Error(), kind)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			logger.Error().Err(err).Msg("Failed to write response")
		}
	}
}

func writeError(w http.ResponseWriter, status int, message, kind string) {
	body := map[string]string{"error": message}
	if kind != "" {
		body["kind"] = kind
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
