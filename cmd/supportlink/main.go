// supportlink acuña tokens de acceso de soporte de un solo uso.
// El link generado abre una sesión de guía sin pedir credenciales.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tourcube/guideportal/internal/cache"
	"github.com/tourcube/guideportal/internal/security/supporttoken"
	"github.com/tourcube/guideportal/internal/tenant"
)

func main() {
	_ = godotenv.Load()

	var (
		guideHash string
		company   string
		mode      string
		ttl       time.Duration
		secret    = os.Getenv("SECRET_KEY")
		baseURL   = envOr("PORTAL_BASE_URL", "http://localhost:8000")
	)

	root := &cobra.Command{
		Use:   "supportlink",
		Short: "Genera links de acceso de soporte al Guide Portal",
		Long: "Acuña un token firmado de un solo uso que abre la sesión del guía\n" +
			"indicado. Los tokens vencen a los minutos y se consumen al primer uso.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("falta el secreto de firma (flag --secret o env SECRET_KEY)")
			}
			if guideHash == "" {
				return fmt.Errorf("falta --guide-hash")
			}
			if !tenant.ValidMode(mode) {
				return fmt.Errorf("modo inválido %q: debe ser Test o Production", mode)
			}

			// El issuer exige un cache para el tracking de jti; para acuñar
			// alcanza uno en memoria.
			mem, err := cache.New(context.Background(), cache.Config{Kind: "memory", DefaultTTL: ttl})
			if err != nil {
				return err
			}
			issuer, err := supporttoken.NewIssuer(secret, ttl, mem)
			if err != nil {
				return err
			}

			token, err := issuer.Mint(guideHash, company, mode)
			if err != nil {
				return err
			}

			fmt.Printf("token: %s\n", token)
			fmt.Printf("url:   %s/auth/support?token=%s\n", baseURL, url.QueryEscape(token))
			fmt.Printf("vence: %s (un solo uso)\n", time.Now().Add(issuer.TTL()).Format(time.RFC3339))
			return nil
		},
	}

	root.Flags().StringVar(&guideHash, "guide-hash", "", "hash del guía en Tourcube (clientHash)")
	root.Flags().StringVar(&company, "company", "WTGUIDE", "código de compañía")
	root.Flags().StringVar(&mode, "mode", "Test", "Test o Production")
	root.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "vigencia del token (máximo 15m)")
	root.Flags().StringVar(&secret, "secret", secret, "secreto de firma (env SECRET_KEY)")
	root.Flags().StringVar(&baseURL, "base-url", baseURL, "URL base del portal (env PORTAL_BASE_URL)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
