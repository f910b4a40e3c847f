// Command gateway-probe checks a card gateway configuration without a storefront
// session: it sanitises a saved payment form, submits it in headless Chromium
// and prints where the browser lands.
//
//	gateway-probe [-action URL] [-timeout 45s] form.html
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"parts-checkout/internal/core/config"
	"parts-checkout/internal/core/logger"
	"parts-checkout/internal/core/proxy"
	paymentadapters "parts-checkout/internal/features/payments/adapters"
	paymentservice "parts-checkout/internal/features/payments/service"

	"go.uber.org/zap"
)

type result struct {
	Action     string `json:"action"`
	Fields     int    `json:"fields"`
	LandingURL string `json:"landingUrl,omitempty"`
	Error      string `json:"error,omitempty"`
}

func main() {
	action := flag.String("action", "", "form action to use when the markup has none")
	timeout := flag.Duration("timeout", 45*time.Second, "browser deadline")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println(`{"error": "Please provide the saved payment form as an argument"}`)
		os.Exit(2)
	}

	if err := logger.Init(os.Getenv("APP_ENV"), "info", "gateway-probe"); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	proxyCfg, err := config.LoadProxy(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	markup, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read form: %v", err)
	}

	out := probe(string(markup), *action, proxy.SettingsFrom(*proxyCfg), *timeout)
	_ = json.NewEncoder(os.Stdout).Encode(out)
	if out.Error != "" {
		logger.Sync()
		os.Exit(1)
	}
}

func probe(markup, action string, settings proxy.Settings, timeout time.Duration) result {
	form, err := paymentservice.NewFormSanitizer().Sanitize(markup, action)
	if err != nil {
		return result{Error: err.Error()}
	}
	out := result{Action: form.Action, Fields: len(form.Fields)}

	logger.Get().Info("Submitting payment form",
		zap.String("action", form.Action),
		zap.Int("fields", len(form.Fields)),
		zap.Bool("proxy", settings.HasProxy()),
	)

	landing, err := paymentadapters.NewRodFormSubmitter(settings, timeout).Submit(context.Background(), *form)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.LandingURL = landing
	return out
}
