// Comando token emite un JWT para un usuario con el secreto y emisor configurados.
//
//	go run ./cmd/token -caller staff-42 -ttl 8h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	caller := flag.String("caller", "", "identidad del usuario (subject del token)")
	ttl := flag.Duration("ttl", time.Duration(cfg.JWT.Expiration)*time.Minute, "vigencia del token")
	flag.Parse()

	signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "JWT_SECRET:", err)
		os.Exit(1)
	}
	token, err := signer.Issue(*caller)
	if err != nil {
		fmt.Fprintln(os.Stderr, "emitir token:", err)
		flag.Usage()
		os.Exit(2)
	}
	fmt.Println(token)
}
