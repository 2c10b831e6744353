// Copyright 2023-present Cryptoflare Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mstephen77/cryptoflare"
	"github.com/mstephen77/cryptoflare/internal"
)

// RootCmd represents the cryptoflared daemon
var RootCmd = &cobra.Command{
	Use:     "cryptoflared [flags]",
	Version: cryptoflare.FullVersion(),
	Short:   "Stateless password hashing service",
	Long: `cryptoflared is a stateless password hashing daemon. It hashes
plaintext passwords with Argon2id or bcrypt and verifies passwords
against previously produced digests, so that other backend services do
not have to embed a password hashing library themselves.`,
	Run: func(cmd *cobra.Command, args []string) {
		bind := viper.GetString("bind")
		debug := viper.GetBool("debug")
		settings := viper.GetString("settings")

		options := []internal.Option{
			internal.WithDebug(debug),
		}
		if settings != "" {
			options = append(options, internal.WithSettings(settings))
		}

		server, err := internal.NewServer(bind, options...)
		if err != nil {
			log.WithError(err).Error("error creating server")
			os.Exit(1)
		}

		if err := server.Run(); err != nil {
			log.WithError(err).Error("error running server")
			os.Exit(1)
		}
	},
}

func init() {
	RootCmd.Flags().StringP(
		"bind", "b", internal.DefaultBind,
		"IP:Port to listen on",
	)

	RootCmd.Flags().BoolP(
		"debug", "d", internal.DefaultDebug,
		"Enable debug logging",
	)

	RootCmd.Flags().StringP(
		"settings", "s", "",
		"Settings file overriding the hashing defaults",
	)

	viper.SetEnvPrefix("cryptoflare")
	viper.AutomaticEnv()

	if err := viper.BindPFlags(RootCmd.Flags()); err != nil {
		log.WithError(err).Error("error binding flags")
		os.Exit(1)
	}
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Error("error executing command")
		os.Exit(1)
	}
}
