package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hl7kit/hl7kit/internal/config"
	"github.com/hl7kit/hl7kit/internal/domain/compose"
	"github.com/hl7kit/hl7kit/internal/domain/fingerprint"
	"github.com/hl7kit/hl7kit/internal/domain/validate"
	"github.com/hl7kit/hl7kit/internal/platform/datagen"
	"github.com/hl7kit/hl7kit/internal/platform/defs"
	"github.com/hl7kit/hl7kit/internal/platform/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hl7kit",
		Short: "HL7 v2 message engine: compose, validate and fingerprint messages",
	}

	rootCmd.AddCommand(composeCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(fingerprintCmd())
	rootCmd.AddCommand(learnCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the pieces every subcommand wires up from configuration.
type app struct {
	cfg    *config.Config
	store  defs.Store
	logger zerolog.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(lvl)
	}

	var store defs.Store
	if cfg.DefsDir != "" {
		store, err = defs.NewFileStore(cfg.DefsDir)
		if err != nil {
			return nil, err
		}
	} else {
		store = defs.Builtin()
	}
	if cfg.CacheSize > 0 {
		store, err = defs.NewCachedStore(store, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
	}

	return &app{cfg: cfg, store: store, logger: logger}, nil
}

// valueSource builds the composer's value source, backed by the SQLite
// datasets when configured.
func (a *app) valueSource() (datagen.Source, error) {
	if a.cfg.DatasetsDB == "" {
		return datagen.NewGenerator(nil), nil
	}
	ds, err := datagen.OpenSQLiteDatasets(a.cfg.DatasetsDB)
	if err != nil {
		return nil, err
	}
	return datagen.NewGenerator(ds), nil
}

func (a *app) vendorRules() (fingerprint.Rules, error) {
	if a.cfg.VendorRulesFile == "" {
		return nil, nil
	}
	return fingerprint.LoadRules(a.cfg.VendorRulesFile)
}

func composeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose EVENT",
		Short: "Compose a message for a trigger event (e.g. ADT_A01)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			values, err := a.valueSource()
			if err != nil {
				return err
			}

			opts := compose.Options{
				SendingApp:        a.cfg.SendingApp,
				SendingFacility:   a.cfg.SendingFacility,
				ReceivingApp:      a.cfg.ReceivingApp,
				ReceivingFacility: a.cfg.ReceivingFacility,
				ProcessingID:      a.cfg.ProcessingID,
				Version:           a.cfg.DefaultVersion,
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed, _ = cmd.Flags().GetInt64("seed")
				opts.Seeded = true
			} else {
				opts.UseCurrentTime = true
			}
			opts.IncludeOptional, _ = cmd.Flags().GetBool("include-optional")
			if cmd.Flags().Changed("current-time") {
				opts.UseCurrentTime, _ = cmd.Flags().GetBool("current-time")
			}

			pins, _ := cmd.Flags().GetStringArray("pin")
			opts.Pins, err = parsePairs(pins, "pin")
			if err != nil {
				return err
			}
			repeats, _ := cmd.Flags().GetStringArray("repeat")
			opts.Repetitions, err = parseCounts(repeats)
			if err != nil {
				return err
			}

			in, err := inputsFromFlags(cmd)
			if err != nil {
				return err
			}

			composer := compose.NewComposer(a.store, values, a.logger)
			msg, err := composer.Compose(args[0], in, opts)
			if err != nil {
				return err
			}
			fmt.Print(wire.Encode(msg, wire.EncodeOptions{}))
			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Seed for reproducible output; omit for random values")
	cmd.Flags().Bool("include-optional", false, "Fill optional fields and segments")
	cmd.Flags().Bool("current-time", false, "Stamp with the wall clock instead of the reference time")
	cmd.Flags().StringArray("pin", nil, "Pin a field value, e.g. --pin PV1-2=E (repeatable)")
	cmd.Flags().StringArray("repeat", nil, "Repetition count per segment or group, e.g. --repeat DG1=2")
	cmd.Flags().String("family", "", "Patient family name")
	cmd.Flags().String("given", "", "Patient given name")
	cmd.Flags().String("mrn", "", "Patient medical record number")
	cmd.Flags().String("sex", "", "Patient administrative sex code")
	cmd.Flags().String("birthdate", "", "Patient birth date (YYYYMMDD)")
	return cmd
}

func inputsFromFlags(cmd *cobra.Command) (compose.Inputs, error) {
	var in compose.Inputs
	family, _ := cmd.Flags().GetString("family")
	given, _ := cmd.Flags().GetString("given")
	mrn, _ := cmd.Flags().GetString("mrn")
	sex, _ := cmd.Flags().GetString("sex")
	birthdate, _ := cmd.Flags().GetString("birthdate")
	if family != "" || given != "" || mrn != "" {
		in.Patient = &compose.Patient{
			MRN:        mrn,
			FamilyName: family,
			GivenName:  given,
			Sex:        sex,
			BirthDate:  birthdate,
		}
	}
	return in, nil
}

func parsePairs(pairs []string, what string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid %s %q, expected PATH=VALUE", what, p)
		}
		out[key] = value
	}
	return out, nil
}

func parseCounts(pairs []string) (map[string]int, error) {
	raw, err := parsePairs(pairs, "repeat")
	if err != nil || raw == nil {
		return nil, err
	}
	out := make(map[string]int, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid repeat count %q for %s", v, k)
		}
		out[k] = n
	}
	return out, nil
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate a message from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			modeName, _ := cmd.Flags().GetString("mode")
			if modeName == "" {
				modeName = a.cfg.ValidateMode
			}
			mode, err := validate.ParseMode(modeName)
			if err != nil {
				return err
			}

			text, err := readInput(args)
			if err != nil {
				return err
			}
			msg, err := wire.Decode(text)
			if err != nil {
				return err
			}

			v := validate.NewValidator(a.store, a.logger)
			res, err := v.Validate(msg, mode)
			if err != nil {
				return err
			}

			for _, issue := range res.Issues {
				loc := issue.FieldPath
				if loc == "" {
					loc = "-"
				}
				fmt.Printf("%-8s %-16s %-8s %s\n", issue.Severity, issue.Code, loc, issue.Message)
			}
			if !res.IsValid() {
				return fmt.Errorf("message is invalid in %s mode (%d errors)",
					mode, res.CountBySeverity(validate.SeverityError))
			}
			fmt.Printf("message is valid in %s mode (%d warnings)\n",
				mode, res.CountBySeverity(validate.SeverityWarning))
			return nil
		},
	}
	cmd.Flags().String("mode", "", "Validation mode: strict, compatibility or lenient")
	return cmd
}

func fingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint [FILE]",
		Short: "Identify the likely vendor of a message",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			rules, err := a.vendorRules()
			if err != nil {
				return err
			}
			text, err := readInput(args)
			if err != nil {
				return err
			}

			engine := fingerprint.NewEngine(rules, a.logger)
			sig, err := engine.ExtractSignature(text)
			if err != nil {
				return err
			}
			name := sig.Name
			if name == "" {
				name = "(unknown)"
			}
			fmt.Printf("vendor: %s  app: %s  facility: %s  version: %s  confidence: %.2f\n",
				name, sig.SendingApp, sig.SendingFacility, sig.Version, sig.Confidence)

			configsFile, _ := cmd.Flags().GetString("configs")
			if configsFile == "" {
				configsFile = a.cfg.VendorConfigsFile
			}
			if configsFile == "" {
				return nil
			}
			configs, err := fingerprint.LoadConfigurations(configsFile)
			if err != nil {
				return err
			}
			ranked, err := engine.RankCandidates(text, configs)
			if err != nil {
				return err
			}
			if len(ranked) == 0 {
				fmt.Println("no known configuration matches")
				return nil
			}
			for i, c := range ranked {
				fmt.Printf("%d. %-20s score %.2f  (samples %d)\n",
					i+1, c.Config.Address.Vendor, c.Score, c.Config.SampleCount)
			}
			return nil
		},
	}
	cmd.Flags().String("configs", "", "Vendor configuration registry (JSON)")
	return cmd
}

func learnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn FILE...",
		Short: "Learn a vendor configuration from sample message files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			rules, err := a.vendorRules()
			if err != nil {
				return err
			}

			samples, err := readSamples(args)
			if err != nil {
				return err
			}

			engine := fingerprint.NewEngine(rules, a.logger)
			cfg, err := engine.LearnFromSamples(samples, fingerprint.LearnOptions{
				Workers: a.cfg.LearnWorkers,
			})
			if err != nil {
				return err
			}
			fmt.Printf("learned vendor %q from %d samples (confidence %.2f)\n",
				cfg.Address.Vendor, cfg.SampleCount, cfg.Confidence)

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = a.cfg.VendorConfigsFile
			}
			if out == "" {
				return nil
			}
			var registry []*fingerprint.VendorConfiguration
			if _, statErr := os.Stat(out); statErr == nil {
				registry, err = fingerprint.LoadConfigurations(out)
				if err != nil {
					return err
				}
			}
			registry = append(registry, cfg)
			if err := fingerprint.SaveConfigurations(out, registry); err != nil {
				return err
			}
			fmt.Printf("registry updated: %s (%d configurations)\n", out, len(registry))
			return nil
		},
	}
	cmd.Flags().String("out", "", "Registry file to append the learned configuration to")
	return cmd
}

// readInput returns the message text from the named file, or stdin when no
// file is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readSamples loads one message per file; directories contribute every
// .hl7 file they contain.
func readSamples(paths []string) ([]string, error) {
	var samples []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			matches, err := filepath.Glob(filepath.Join(p, "*.hl7"))
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				data, err := os.ReadFile(m)
				if err != nil {
					return nil, err
				}
				samples = append(samples, string(data))
			}
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		samples = append(samples, string(data))
	}
	return samples, nil
}
