package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ormasoftchile/bsif/pkg/bsif/convert"
	"github.com/ormasoftchile/bsif/pkg/bsif/debugger"
	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
	"github.com/ormasoftchile/bsif/pkg/bsif/lint"
	"github.com/ormasoftchile/bsif/pkg/bsif/migrate"
	"github.com/ormasoftchile/bsif/pkg/bsif/project/scxml"
	"github.com/ormasoftchile/bsif/pkg/bsif/project/smtlib"
	"github.com/ormasoftchile/bsif/pkg/bsif/project/tla"
	"github.com/ormasoftchile/bsif/pkg/bsif/registryclient"
	"github.com/ormasoftchile/bsif/pkg/bsif/resolve"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
	"github.com/ormasoftchile/bsif/pkg/bsif/testgen"
	"github.com/ormasoftchile/bsif/pkg/bsif/validate"
	"github.com/ormasoftchile/bsif/pkg/bsif/watch"
	"github.com/ormasoftchile/bsif/pkg/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var outputFormat string

var rootCmd = &cobra.Command{
	Use:   "bsif",
	Short: "Behavioral Specification Interchange Format toolchain",
	Long:  "bsif — decode, validate, resolve and execute BSIF documents, and project them to/from TLA+, SCXML and SMT-LIB.",
}

// rcConfig carries defaults loaded from an optional .bsifrc.yaml in the
// working directory. Explicit flags always win: the file only replaces
// the built-in flag defaults before parsing.
type rcConfig struct {
	OutputFormat string `yaml:"output_format"`
	RegistryURL  string `yaml:"registry_url"`
}

func loadRC() rcConfig {
	var rc rcConfig
	data, err := os.ReadFile(".bsifrc.yaml")
	if err != nil {
		return rc
	}
	if err := yaml.Unmarshal(data, &rc); err != nil {
		fmt.Fprintf(os.Stderr, "warning: ignoring malformed .bsifrc.yaml: %v\n", err)
		return rcConfig{}
	}
	return rc
}

func main() {
	rc := loadRC()
	if rc.OutputFormat != "" {
		outputFormat = rc.OutputFormat
	}
	if rc.RegistryURL != "" {
		registryURL = rc.RegistryURL
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output-format", "text", "Output format: text or json")
	rootCmd.AddCommand(validateCmd, checkCmd, formatCmd, convertCmd, resolveCmd, lintCmd,
		watchCmd, generateCmd, migrateCmd, importCmd, registryCmd, replCmd, debugCmd)
}

func printDiags(diags diag.List) {
	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(diags)
		return
	}
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a BSIF document structurally and semantically",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, diags := validate.ValidateFile(args[0])
		printDiags(diags)
		if diags.HasErrors() {
			return fmt.Errorf("validation failed with %d error(s)", len(diags.Errors()))
		}
		fmt.Printf("%s is valid (%s)\n", doc.Metadata.Name, doc.Semantics.Type())
		return nil
	},
}

// --- check (JSON-Schema structural check only) ---

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run only the JSON-Schema-driven structural check",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		jsonData := data
		if strings.ToLower(filepath.Ext(args[0])) != ".json" {
			jsonData, err = convert.ToJSON(data, args[0])
			if err != nil {
				return err
			}
		}
		if err := schema.ValidateAgainstJSONSchema(jsonData); err != nil {
			return err
		}
		fmt.Println("schema check passed")
		return nil
	},
}

// --- format ---

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Pretty-print a document in its own format (canonical form)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var out []byte
		if strings.ToLower(filepath.Ext(args[0])) == ".json" {
			out, err = convert.ToJSON(data, args[0])
		} else {
			out, err = convert.ToYAML(data, args[0])
		}
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

// --- convert ---

var convertTo string

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a document between JSON and YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var out []byte
		switch convertTo {
		case "json":
			out, err = convert.ToJSON(data, args[0])
		case "yaml":
			out, err = convert.ToYAML(data, args[0])
		default:
			return fmt.Errorf("--to must be json or yaml")
		}
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "json", "Target format: json or yaml")
}

// --- resolve ---

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve a document's transitive references into a DAG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := resolve.New(resolve.DefaultOptions())
		resolved, diags := r.Resolve(args[0])
		if diags.HasErrors() {
			printDiags(diags)
			return fmt.Errorf("resolution failed")
		}
		fmt.Printf("%s resolved with %d reference(s)\n", resolved.Metadata.Name, len(resolved.References))
		for name := range resolved.References {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	},
}

// --- lint ---

var lintSchema bool

var lintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Run style-only checks (does not affect validation exit code)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, diags := validate.ValidateFile(args[0])
		if diags.HasErrors() {
			printDiags(diags)
			return fmt.Errorf("document does not validate")
		}
		warns := lint.Lint(doc)
		printDiags(warns)
		if lintSchema {
			jsonData, err := schema.EncodeJSON(doc)
			if err != nil {
				return err
			}
			if err := schema.ValidateAgainstJSONSchema(jsonData); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().BoolVar(&lintSchema, "schema", false, "Also round-trip the document through the exported JSON Schema")
}

// --- watch ---

var watchCmd = &cobra.Command{
	Use:   "watch [file...]",
	Short: "Re-validate documents whenever they change on disk",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := watch.New(args, func(r watch.Result) {
			if r.Err != nil {
				fmt.Printf("%s  ! %v\n", r.Path, r.Err)
				return
			}
			if r.Diags.HasErrors() {
				fmt.Printf("%s  ✗ %d error(s)\n", r.Path, len(r.Diags.Errors()))
			} else {
				fmt.Printf("%s  ✓ valid\n", r.Path)
			}
		})
		if err != nil {
			return err
		}
		return w.Run(cmd.Context())
	},
}

// --- generate (testgen) ---

var generatePkg string

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Emit a Go test walking a state machine's first reachable path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, diags := validate.ValidateFile(args[0])
		if diags.HasErrors() {
			printDiags(diags)
			return fmt.Errorf("document does not validate")
		}
		out, err := testgen.EmitGoTest(doc, generatePkg)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generatePkg, "package", "main", "Go package name for the emitted test")
}

// --- migrate ---

var migrateTarget string

var migrateCmd = &cobra.Command{
	Use:   "migrate [file]",
	Short: "Migrate a document to a target bsif_version major",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTarget == "" {
			return fmt.Errorf("--to is required")
		}
		doc, diags := validate.ValidateFile(args[0])
		if diags.HasErrors() {
			printDiags(diags)
			return fmt.Errorf("document does not validate")
		}
		if err := migrate.Apply(doc, migrateTarget); err != nil {
			return err
		}
		out, err := schema.EncodeJSON(doc)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTarget, "to", "", "Target major version")
}

// --- import (external formal-methods dialects) ---

var importFormat string

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a TLA+, SCXML, or SMT-LIB file as a BSIF document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var doc *schema.Document
		switch importFormat {
		case "tla":
			doc, err = tla.Import(data)
		case "scxml":
			doc, err = scxml.Import(data)
		case "smtlib":
			doc, err = smtlib.Import(data, strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])))
		default:
			return fmt.Errorf("--from must be one of: tla, scxml, smtlib")
		}
		if err != nil {
			return err
		}
		out, err := schema.EncodeJSON(doc)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "from", "", "Source dialect: tla, scxml, smtlib")
}

// --- registry ---

var registryURL string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Publish, fetch, or search a BSIF document registry",
}

var registryPublishCmd = &cobra.Command{
	Use:   "publish [file]",
	Short: "Publish a document to the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, diags := validate.ValidateFile(args[0])
		if diags.HasErrors() {
			printDiags(diags)
			return fmt.Errorf("document does not validate")
		}
		body, err := schema.EncodeJSON(doc)
		if err != nil {
			return err
		}
		c := registryclient.New(registryURL)
		return c.Publish(registryclient.Entry{Name: doc.Metadata.Name, Version: doc.Metadata.Version, Body: body})
	},
}

var registryFetchCmd = &cobra.Command{
	Use:   "fetch [name] [version]",
	Short: "Fetch a document from the registry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := registryclient.New(registryURL)
		entry, err := c.Fetch(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(string(entry.Body))
		return nil
	},
}

var registrySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the registry by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := registryclient.New(registryURL)
		entries, err := c.Search(args[0])
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s@%s\n", e.Name, e.Version)
		}
		return nil
	},
}

func init() {
	registryCmd.PersistentFlags().StringVar(&registryURL, "registry-url", "http://localhost:8421", "Registry base URL")
	registryCmd.AddCommand(registryPublishCmd, registryFetchCmd, registrySearchCmd)
}

// --- repl / debug (interactive executor front-ends) ---

func loadStateMachine(path string) (schema.StateMachine, string, diag.List, error) {
	doc, diags := validate.ValidateFile(path)
	if diags.HasErrors() {
		return schema.StateMachine{}, "", diags, fmt.Errorf("document does not validate")
	}
	sm, ok := doc.Semantics.(schema.StateMachine)
	if !ok {
		return schema.StateMachine{}, "", nil, fmt.Errorf("%s is a %s document, not a state machine", path, doc.Semantics.Type())
	}
	return sm, doc.Metadata.Description, diags, nil
}

var replCmd = &cobra.Command{
	Use:   "repl [file]",
	Short: "Step a state machine interactively in a full-screen terminal UI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sm, description, diags, err := loadStateMachine(args[0])
		if err != nil {
			printDiags(diags)
			return err
		}
		return tui.Run(sm, description)
	},
}

var debugCmd = &cobra.Command{
	Use:   "debug [file]",
	Short: "Step a state machine interactively in a line-oriented REPL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sm, _, diags, err := loadStateMachine(args[0])
		if err != nil {
			printDiags(diags)
			return err
		}
		return debugger.New(sm).Run()
	},
}
