// Command hash-generator prints PBKDF2 password hashes in the format stored in
// users.password, for seeding accounts directly in the database.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/karent-api/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

// run hashes every password argument, or every line of stdin when no
// arguments are given. With -verify it checks one password against a hash.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("hash-generator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verify := fs.String("verify", "", "stored hash to check the single password argument against")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hasher := auth.NewPBKDF2Hasher()

	if *verify != "" {
		if fs.NArg() != 1 {
			return errors.New("-verify needs exactly one password argument")
		}
		if err := hasher.Compare(*verify, fs.Arg(0)); err != nil {
			return err
		}
		_, err := fmt.Fprintln(stdout, "match")
		return err
	}

	passwords := fs.Args()
	if len(passwords) == 0 {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				passwords = append(passwords, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read passwords: %w", err)
		}
	}

	for _, password := range passwords {
		hash, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(stdout, hash); err != nil {
			return err
		}
	}
	return nil
}
