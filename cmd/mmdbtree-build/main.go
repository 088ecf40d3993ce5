/*
 * Copyright (C) 2026 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/heptiolabs/healthcheck"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/netobserv/mmdbtree/pkg/buildconfig"
)

var (
	cfgFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "mmdbtree-build",
		Short: "Build a MaxMind-DB-style search tree from CSV/JSON sources",
		RunE:  runBuild,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.mmdbtree-build.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int("ipVersion", 6, "tree IP version (4 or 6)")
	rootCmd.PersistentFlags().Int("recordSize", 24, "record size in bits (24, 28, or 32)")
	rootCmd.PersistentFlags().Bool("deleteReserved", true, "delete special-use reserved networks before writing")
	rootCmd.PersistentFlags().Bool("aliasIPv4", true, "alias IPv4-mapped and 6to4 ranges to the IPv4 subtree (v6 trees only)")
	rootCmd.PersistentFlags().String("output", "tree.bin", "output path for the encoded search tree")
	rootCmd.PersistentFlags().String("health.port", "8080", "liveness/readiness server port")

	initFlags()
}

func initFlags() {
	bindFlags(rootCmd, viper.GetViper())
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			_ = v.BindEnv(f.Name, fmt.Sprintf("MMDBTREE_BUILD_%s", envVarSuffix))
		}
	})
	_ = v.BindPFlags(cmd.PersistentFlags())
}

func initConfig() {
	v := viper.GetViper()
	v.SetEnvPrefix("MMDBTREE_BUILD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			log.WithError(err).Warn("could not read config file")
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".mmdbtree-build")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				log.WithError(err).Warn("could not read config file")
			}
		}
	}

	initLogger()
}

func initLogger() {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

func dumpConfig(opts buildconfig.Options) {
	var json = jsoniter.ConfigCompatibleWithStandardLibrary
	b, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		log.WithError(err).Debug("could not dump config")
		return
	}
	log.Debugf("resolved config:\n%s", string(b))
}

func runBuild(_ *cobra.Command, _ []string) error {
	opts, err := buildconfig.Decode(viper.GetViper())
	if err != nil {
		return errors.Wrap(err, "loading build config")
	}
	dumpConfig(opts)

	handler := healthcheck.NewHandler()
	handler.AddLivenessCheck("buildJob", healthcheck.TCPDialCheck("127.0.0.1:0", time.Second))
	go serveHealth(net.JoinHostPort("0.0.0.0", opts.Health.Port), handler)

	job, err := newBuildJob(opts)
	if err != nil {
		return errors.Wrap(err, "initializing tree")
	}

	if err := job.run(); err != nil {
		return errors.Wrap(err, "running build job")
	}

	log.Infof("wrote %s", opts.Output)
	return nil
}

func serveHealth(address string, handler healthcheck.Handler) {
	for {
		err := http.ListenAndServe(address, handler)
		log.WithError(err).Error("health server exited, retrying")
		time.Sleep(60 * time.Second)
	}
}
