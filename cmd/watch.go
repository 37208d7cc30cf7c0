package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prowl "github.com/treadway/prowl/internal/scout"
)

var watchCmd = &cobra.Command{
	Use:   "watch [options] <path>",
	Short: "Watch a directory tree for matching files",
	Long: `Watch reports files that appear, change or disappear under a directory
and whose name matches the glob pattern.

Examples:
  prowl watch /path/to/watch --pattern="*.log"
  prowl watch /path/to/watch -r --timeout=30s`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("pattern", "*", "Glob pattern to match file names against")
	watchCmd.Flags().BoolP("recursive", "r", false, "Watch subdirectories too")
	watchCmd.Flags().Duration("timeout", 0, "Stop watching after this duration (0 means forever)")

	viper.BindPFlag("watch.pattern", watchCmd.Flags().Lookup("pattern"))
	viper.BindPFlag("watch.recursive", watchCmd.Flags().Lookup("recursive"))
	viper.BindPFlag("watch.timeout", watchCmd.Flags().Lookup("timeout"))
}

func runWatch(root string) error {
	level, err := prowl.ParseLogLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}

	opts := prowl.WatchOptions{
		Pattern:   viper.GetString("watch.pattern"),
		Recursive: viper.GetBool("watch.recursive"),
		Timeout:   viper.GetDuration("watch.timeout"),
		LogLevel:  level,
	}

	return prowl.Watch(context.Background(), root, opts, nil)
}
