// Package main, conduit bağlantı kontrol ve kurulum aracıdır.
//
// Kullanım:
//
//	conduit status                      # bağlantıları ve yeteneklerini listeler
//	conduit install --table migrations  # migration bookkeeping tablosunu kurar
package main

import (
	"os"

	"github.com/biyonik/conduit-orm/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
