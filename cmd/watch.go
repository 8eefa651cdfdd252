package cmd

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tristendillon/pcc/core/cache"
	"github.com/tristendillon/pcc/core/logger"
	"github.com/tristendillon/pcc/core/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [targets...]",
	Short: "Rebuild the combined code whenever project files change",
	Long: `Builds the combined code once, then rebuilds it after every batch of file
changes under the working directory. Stop with Ctrl+C.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession(cmd, args)
		if err != nil {
			return err
		}

		fw, err := watcher.NewFileWatcher(session.workDir, session.processor.Matcher.Excluded)
		if err != nil {
			return err
		}
		defer fw.Close()

		var mu sync.Mutex
		rebundle := func() error {
			mu.Lock()
			defer mu.Unlock()
			return session.run(args)
		}

		fw.OnStart = rebundle
		fw.OnChange = func(changed []string) error {
			importCache := cache.GetImportCache()
			for _, path := range changed {
				importCache.Invalidate(path)
			}
			logger.Info("%d file(s) changed, rebuilding", len(changed))
			return rebundle()
		}
		fw.OnClose = func() error {
			cache.GetImportCache().LogStats()
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("Watching %s for changes...", session.workDir)
		return fw.Watch(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
