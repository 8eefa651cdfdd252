/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tristendillon/pcc/core/ast"
	"github.com/tristendillon/pcc/core/bundle"
	"github.com/tristendillon/pcc/core/cache"
	"github.com/tristendillon/pcc/core/config"
	"github.com/tristendillon/pcc/core/dependency"
	"github.com/tristendillon/pcc/core/ignore"
	"github.com/tristendillon/pcc/core/logger"
	"github.com/tristendillon/pcc/core/output"
	"github.com/tristendillon/pcc/core/resolver"
	"github.com/tristendillon/pcc/core/tsconfig"
	"github.com/tristendillon/pcc/core/walker"
)

var rootCmd = &cobra.Command{
	Use:   "pcc [targets...]",
	Short: "Combine project code into a single annotated document.",
	Long: `pcc gathers source files, and optionally everything they import, into one
XML-style document that is copied to the clipboard or saved to a file.
Each dependency lists the files that pulled it in.`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd, args)
		if err != nil {
			return err
		}
		if err := session.run(args); err != nil {
			return err
		}
		logger.Info("Project code combined successfully.")
		cache.GetImportCache().LogStats()
		return nil
	},
}

var logfile string
var verbose bool

var (
	copyOutput     bool
	saveOutput     bool
	outputPath     string
	ignoreFilePath string
	ignorePatterns []string
	relative       bool
	deps           bool
	targetFiles    []string
	referenceFiles []string
	cycleEdges     bool
)

func Execute() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&copyOutput, "copy", false, "Copy the combined code to the clipboard")
	flags.BoolVar(&saveOutput, "save", false, "Save the combined code to a file")
	flags.StringVar(&outputPath, "output-path", "", "Output file path")
	flags.StringVar(&ignoreFilePath, "ignore-file-path", "", "Ignore file in .gitignore format")
	flags.StringArrayVar(&ignorePatterns, "ignore", nil, "Additional ignore pattern (repeatable)")
	flags.BoolVar(&relative, "relative", true, "Show paths relative to the working directory")
	flags.BoolVar(&deps, "deps", false, "Resolve and include dependencies")
	flags.StringArrayVar(&targetFiles, "target", nil, "File to be modified (repeatable)")
	flags.StringArrayVar(&referenceFiles, "reference", nil, "File given for context (repeatable)")
	flags.BoolVar(&cycleEdges, "cycle-edges", false, "Report importers across circular imports")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	logger.SetVerbose(verbose)
	if err := logger.SetLogFile(logfile); err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logger.Debug("%s called", cmd.Name())
	return nil
}

// session is one configured processor plus its destination.
type session struct {
	workDir   string
	processor *bundle.Processor
	sink      output.Sink
}

func newSession(cmd *cobra.Command, args []string) (*session, error) {
	if len(args) == 0 && len(targetFiles) == 0 && len(referenceFiles) == 0 {
		return nil, fmt.Errorf("either [targets] or --target/--reference must be specified")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	opts := config.NewProcessingOptions(config.Flags{
		IgnorePatterns: ignorePatterns,
		IgnoreFilePath: ignoreFilePath,
		Relative:       relative,
		RelativeSet:    cmd.Flags().Changed("relative"),
		Deps:           deps,
		CycleEdges:     cycleEdges,
		TargetFiles:    targetFiles,
		ReferenceFiles: referenceFiles,
	}, cfg)

	processor, err := newProcessor(wd, opts)
	if err != nil {
		return nil, err
	}
	sink, err := output.Choose(output.Request{
		Copy:       copyOutput,
		Save:       saveOutput,
		OutputPath: outputPath,
	}, cfg, wd)
	if err != nil {
		return nil, err
	}

	return &session{workDir: wd, processor: processor, sink: sink}, nil
}

func newProcessor(wd string, opts config.ProcessingOptions) (*bundle.Processor, error) {
	matcher, err := ignore.NewMatcher(wd, opts.IgnorePatterns, opts.IgnoreFilePath)
	if err != nil {
		return nil, err
	}

	p := &bundle.Processor{
		Options:  opts,
		WorkDir:  wd,
		Matcher:  matcher,
		Walker:   walker.NewFileWalker(matcher),
		Supports: ast.IsSupportedFile,
	}
	if opts.Deps {
		aliases := tsconfig.LoadAliases(wd)
		ts := resolver.NewTypeScriptResolver(wd, aliases, resolver.WithExtractor(cache.GetImportCache().Imports))
		p.Builder = dependency.NewBuilder(ts, dependency.Options{
			Exclude:          ignore.Exclude(wd, matcher),
			RecordCycleEdges: opts.RecordCycleEdges,
		})
	}
	return p, nil
}

func (s *session) run(targets []string) error {
	res, err := s.processor.Process(targets)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		logger.Warn("%s", w)
	}
	logger.Debug("Bundled %d files and %d dependencies", len(res.Files), len(res.Dependencies))
	return s.sink.Write(res.Text)
}
