package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/objedit/jsonshape/internal/config"
	"github.com/objedit/jsonshape/internal/editor"
	"github.com/objedit/jsonshape/internal/errors"
	"github.com/objedit/jsonshape/internal/formatter"
	"github.com/objedit/jsonshape/internal/models"
	"github.com/objedit/jsonshape/internal/parser"
	"github.com/objedit/jsonshape/internal/session"
	"github.com/objedit/jsonshape/internal/store"
	"github.com/objedit/jsonshape/internal/template"
	"github.com/objedit/jsonshape/internal/validate"
	"github.com/objedit/jsonshape/internal/watch"
)

// Version information
const Version = "0.1.0"

// CLI defines the command-line interface
var CLI struct {
	Config  string           `help:"Path to config file. Defaults to the nearest .jsonshape.yml." type:"path"`
	Plain   bool             `help:"Disable styled output."`
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Infer        InferCmd        `cmd:"" help:"Infer a template from a JSON document."`
	Validate     ValidateCmd     `cmd:"" help:"Validate a JSON document against a template."`
	Watch        WatchCmd        `cmd:"" help:"Re-validate a JSON document whenever it changes."`
	Ls           LsCmd           `cmd:"" help:"List objects in a bucket."`
	Get          GetCmd          `cmd:"" help:"Fetch an object from a bucket."`
	Put          PutCmd          `cmd:"" help:"Validate a JSON document and store it in a bucket."`
	ConfigSchema ConfigSchemaCmd `cmd:"" name:"config-schema" help:"Print the JSON Schema of the config file."`
}

// Context carries the loaded configuration and formatter into commands.
type Context struct {
	Config    *config.Config
	Formatter *formatter.Formatter
}

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsonshape"),
		kong.Description("Infer structural templates from JSON documents, validate entries against them, and gate saves to an object store."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage was already shown by kong.UsageOnError().
		os.Exit(1)
	}

	cfg, err := config.LoadConfigWithCLI(CLI.Config, "", "", CLI.Plain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	appCtx := &Context{
		Config:    cfg,
		Formatter: formatter.NewFormatter(cfg.Output.Plain),
	}

	if err := kctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// resolveMode picks the save-gate mode: command flag beats config.
func resolveMode(flagMode string, cfg *config.Config) (session.BlockMode, error) {
	if flagMode == "" {
		return cfg.BlockMode(), nil
	}
	mode := session.BlockMode(flagMode)
	if !session.ValidMode(mode) {
		return "", errors.NewConfigError(fmt.Sprintf("invalid mode '%s', expected 'warn' or 'block'", flagMode), nil)
	}
	return mode, nil
}

// loadOrDetectTemplate returns the externally supplied template when a
// path is given, otherwise the one inferred from data.
func loadOrDetectTemplate(templatePath string, data models.JSONValue) (*template.Template, bool, error) {
	if templatePath != "" {
		t, err := template.LoadFile(templatePath)
		return t, true, err
	}
	return template.Detect(data), false, nil
}

// openBucket resolves a bucket reference and opens a store for it.
// Remote endpoints need a transport implementation this tool does not
// carry; only filesystem-rooted buckets open.
func openBucket(cfg *config.Config, bucketRef string) (store.ObjectStore, error) {
	ref, err := cfg.Registry().Resolve(bucketRef)
	if err != nil {
		return nil, err
	}
	if ref.Bucket.Root == "" {
		return nil, errors.NewStorageError(
			fmt.Sprintf("bucket '%s/%s' has no local root; remote endpoints are not supported by this tool", ref.Org.Slug, ref.Bucket.Slug),
			nil,
		)
	}
	return store.NewFileStore(ref.Bucket.Root)
}

// InferCmd infers and reports a template from a document.
type InferCmd struct {
	File       string `arg:"" help:"Path to the JSON document." type:"path"`
	JSON       bool   `help:"Emit the template as JSON."`
	JSONSchema bool   `name:"json-schema" help:"Emit the template as a JSON Schema document."`
	Save       string `help:"Write the template to this path." type:"path"`
}

func (c *InferCmd) Run(ctx *Context) error {
	doc, err := parser.ParseFile(c.File)
	if err != nil {
		return err
	}

	tmpl := template.Detect(doc.Root)
	if tmpl == nil {
		return errors.NewTemplateError(
			fmt.Sprintf("no usable template in '%s'", c.File),
			errors.ErrNoTemplate,
		)
	}

	if c.Save != "" {
		if err := template.SaveFile(c.Save, tmpl); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Template written to %s\n", c.Save)
	}

	switch {
	case c.JSONSchema:
		out, err := ctx.Formatter.JSON(template.JSONSchema(tmpl))
		if err != nil {
			return err
		}
		fmt.Print(out)
	case c.JSON:
		out, err := ctx.Formatter.JSON(tmpl)
		if err != nil {
			return err
		}
		fmt.Print(out)
	default:
		fmt.Print(ctx.Formatter.TemplateSummary(tmpl))
	}
	return nil
}

// ValidateCmd validates a document and exits non-zero when the save gate
// would block.
type ValidateCmd struct {
	File     string `arg:"" help:"Path to the JSON document." type:"path"`
	Template string `help:"Validate against this saved template instead of inferring one." type:"path"`
	Mode     string `help:"Save-gate mode (warn or block)."`
	JSON     bool   `help:"Emit the validation result as JSON."`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	doc, err := parser.ParseFile(c.File)
	if err != nil {
		return err
	}

	mode, err := resolveMode(c.Mode, ctx.Config)
	if err != nil {
		return err
	}
	sess := session.New(mode)
	var result validate.ValidationResult
	if c.Template != "" {
		tmpl, err := template.LoadFile(c.Template)
		if err != nil {
			return err
		}
		sess.SetTemplate(tmpl)
		result = sess.Revalidate(doc.Root)
	} else {
		result = sess.DetectAndValidate(doc.Root)
		if !sess.TemplateDetected() {
			fmt.Fprintln(os.Stderr, "No template could be inferred; nothing to validate against.")
		}
	}

	if c.JSON {
		out, err := ctx.Formatter.JSON(result)
		if err != nil {
			return err
		}
		fmt.Print(out)
	} else {
		fmt.Print(ctx.Formatter.ValidationReport(result))
	}

	if !sess.CanSave() {
		return errors.NewOutputError(
			fmt.Sprintf("save blocked: document has %d errors and %d warnings", sess.ErrorCount(), sess.WarningCount()),
			errors.ErrSaveBlocked,
		)
	}
	return nil
}

// WatchCmd keeps re-validating a document as it changes on disk.
type WatchCmd struct {
	File     string `arg:"" help:"Path to the JSON document." type:"path"`
	Template string `help:"Validate against this saved template instead of inferring one." type:"path"`
	Mode     string `help:"Save-gate mode (warn or block)."`
}

func (c *WatchCmd) Run(ctx *Context) error {
	mode, err := resolveMode(c.Mode, ctx.Config)
	if err != nil {
		return err
	}
	sess := session.New(mode)

	var externalTemplate *template.Template
	if c.Template != "" {
		tmpl, err := template.LoadFile(c.Template)
		if err != nil {
			return err
		}
		externalTemplate = tmpl
	}

	check := func() {
		doc, err := parser.ParseFile(c.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
			return
		}
		if externalTemplate != nil {
			sess.SetTemplate(externalTemplate)
			sess.Revalidate(doc.Root)
		} else {
			sess.DetectAndValidate(doc.Root)
		}
		fmt.Printf("\n%s %s\n", time.Now().Format("15:04:05"), c.File)
		fmt.Print(ctx.Formatter.ValidationReport(sess.LastResult()))
		if !sess.CanSave() {
			fmt.Print(ctx.Formatter.Failure("save gate closed"))
		}
	}

	// Initial pass before the first change.
	check()
	fmt.Fprintf(os.Stderr, "Watching %s, press Ctrl+C to stop\n", c.File)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debounce := time.Duration(ctx.Config.Watch.DebounceMs) * time.Millisecond
	w := watch.New(c.File, debounce, check, func(err error) {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
	})
	if err := w.Run(runCtx); err != nil && runCtx.Err() == nil {
		return err
	}
	return nil
}

// LsCmd lists a bucket.
type LsCmd struct {
	Bucket string `arg:"" optional:"" help:"Bucket reference (org/bucket or a unique bucket slug)."`
	JSON   bool   `help:"Emit the listing as JSON."`
}

func (c *LsCmd) Run(ctx *Context) error {
	st, err := openBucket(ctx.Config, c.Bucket)
	if err != nil {
		return err
	}
	infos, err := st.List(context.Background())
	if err != nil {
		return err
	}
	if c.JSON {
		out, err := ctx.Formatter.JSON(infos)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
	fmt.Print(ctx.Formatter.Listing(infos))
	return nil
}

// GetCmd fetches an object and prints or stores it.
type GetCmd struct {
	Key    string `arg:"" help:"Object key."`
	Bucket string `help:"Bucket reference."`
	Output string `help:"Write the document to this path instead of stdout." short:"o" type:"path"`
}

func (c *GetCmd) Run(ctx *Context) error {
	st, err := openBucket(ctx.Config, c.Bucket)
	if err != nil {
		return err
	}
	value, err := st.Get(context.Background(), c.Key)
	if err != nil {
		return err
	}
	out, err := ctx.Formatter.JSON(value)
	if err != nil {
		return err
	}
	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(out), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", c.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Object written to %s\n", c.Output)
		return nil
	}
	fmt.Print(out)
	return nil
}

// PutCmd runs the full detect/validate/gate pipeline before writing.
type PutCmd struct {
	Key    string `arg:"" help:"Object key."`
	File   string `arg:"" help:"Path to the JSON document." type:"path"`
	Bucket string `help:"Bucket reference."`
	Mode   string `help:"Save-gate mode (warn or block)."`
}

func (c *PutCmd) Run(ctx *Context) error {
	doc, err := parser.ParseFile(c.File)
	if err != nil {
		return err
	}
	st, err := openBucket(ctx.Config, c.Bucket)
	if err != nil {
		return err
	}

	mode, err := resolveMode(c.Mode, ctx.Config)
	if err != nil {
		return err
	}

	ed := editor.New(st, mode)
	if err := ed.Save(context.Background(), c.Key, doc.Root); err != nil {
		fmt.Print(ctx.Formatter.ValidationReport(ed.Session().LastResult()))
		return err
	}

	if result := ed.Session().LastResult(); !result.IsValid {
		fmt.Print(ctx.Formatter.ValidationReport(result))
	}
	fmt.Print(ctx.Formatter.Success(fmt.Sprintf("stored %s", c.Key)))
	return nil
}

// ConfigSchemaCmd prints the config file's JSON Schema.
type ConfigSchemaCmd struct{}

func (c *ConfigSchemaCmd) Run(ctx *Context) error {
	out, err := ctx.Formatter.JSON(config.JSONSchema())
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
