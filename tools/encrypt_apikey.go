// Cifra una API key de Tourcube para guardarla en apikey.json con el
// prefijo enc:v1:. Requiere SECRETBOX_MASTER_KEY en el entorno.
//
// Uso: go run tools/encrypt_apikey.go <api_key>
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tourcube/guideportal/internal/security/secretbox"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run encrypt_apikey.go <api_key>")
	}

	plaintext := os.Args[1]
	encrypted, err := secretbox.Encrypt(plaintext)
	if err != nil {
		log.Fatalf("Encryption failed: %v", err)
	}

	fmt.Printf("Plaintext: %s\n", plaintext)
	fmt.Printf("Registry value: enc:v1:%s\n", encrypted)
}
