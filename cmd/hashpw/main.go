package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dropDatabas3/clubauth/internal/security/credential"
	"github.com/dropDatabas3/clubauth/internal/security/password"
)

// hashpw genera el valor de ADMIN_PASSWORD_HASH.
//
//	hashpw <password>            → sha256 hex
//	hashpw --argon2id <password> → PHC $argon2id$
//
// Sin argumento lee el password de stdin (útil para no dejarlo en el history).
func main() {
	argon := flag.Bool("argon2id", false, "emitir PHC argon2id en lugar de sha256 hex")
	flag.Parse()

	plain := flag.Arg(0)
	if plain == "" {
		fmt.Fprint(os.Stderr, "password: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		plain = strings.TrimSpace(line)
	}
	if plain == "" {
		fmt.Fprintln(os.Stderr, "error: empty password")
		os.Exit(1)
	}

	if *argon {
		phc, err := password.Hash(password.Default, plain)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Println(phc)
		return
	}
	fmt.Println(credential.SHA256Hex(plain))
}
