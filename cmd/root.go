package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prowl "github.com/treadway/prowl/internal/scout"
)

var (
	cfgFile string
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prowl [options] [<path>]",
	Short: "Find files by name with a bounded worker pool",
	Long: `prowl walks a directory tree and prints every file whose name matches
a glob pattern, one full path per line. Subdirectories are handed to a
fixed-size pool of workers; when the pool is saturated they are walked
inline, so concurrency stays bounded no matter how deep the tree is.

The path defaults to the current directory.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		return runProwl(path)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Flags; log-level is persistent so subcommands honor it too.
	rootCmd.PersistentFlags().StringP("log-level", "l", "normal", "Log level (trace|verbose|normal|error|off)")
	rootCmd.Flags().StringP("pattern", "p", "*", "Glob pattern to match file names against")
	rootCmd.Flags().BoolP("recursive", "r", false, "Descend into subdirectories")
	rootCmd.Flags().IntP("workers", "t", 0, "Worker pool capacity (0 runs everything inline)")
	rootCmd.Flags().String("regex", "", "Match file names by regular expression instead of the glob pattern")

	// Bind flags to viper
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("pattern", rootCmd.Flags().Lookup("pattern"))
	viper.BindPFlag("recursive", rootCmd.Flags().Lookup("recursive"))
	viper.BindPFlag("workers", rootCmd.Flags().Lookup("workers"))
	viper.BindPFlag("regex", rootCmd.Flags().Lookup("regex"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".prowl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".prowl")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runProwl(root string) error {
	level, err := prowl.ParseLogLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}

	opts := prowl.Options{
		Pattern:   viper.GetString("pattern"),
		Recursive: viper.GetBool("recursive"),
		Workers:   viper.GetInt("workers"),
		LogLevel:  level,
	}

	// An explicit regex replaces the glob predicate.
	if expr := viper.GetString("regex"); expr != "" {
		opts.Match, err = prowl.Regexp(expr)
		if err != nil {
			return err
		}
	}

	_, err = prowl.Traverse(root, opts)
	return err
}
