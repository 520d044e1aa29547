package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kyaoi/mdpage/internal/app"
)

var opts app.Options

var rootCmd = &cobra.Command{
	Use:   "mdpage [path]",
	Short: "Page through markdown documents in the terminal",
	Long: `mdpage shows a markdown file one page at a time, splitting it at
thematic breaks. Given a directory it opens a file picker instead.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runPager,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "", "read this config file after the default ones")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.StringVarP(&opts.Tag, "tag", "t", "", "only list documents whose frontmatter tags contain this tag")
	flags.StringVar(&opts.CursorTool, "cursor-tool", "", "startup cursor tool to remember: select or hand")
}

func runPager(cmd *cobra.Command, args []string) error {
	opts.Target = "."
	if len(args) == 1 {
		opts.Target = filepath.Clean(args[0])
	}
	return app.Run(cmd.Context(), opts)
}
