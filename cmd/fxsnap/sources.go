package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

const sourcesURLWidth = 60

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sources",
		Aliases: []string{"ls"},
		Short:   "List configured sources",
		Long:    "List every configured source with the file name it is saved under and its URL.",
		Args:    cobra.NoArgs,
		RunE:    sourcesRun,
	}
}

func sourcesRun(cmd *cobra.Command, args []string) error {
	if globalCfg == nil {
		return fmt.Errorf("config not loaded")
	}

	if len(globalCfg.Sources) == 0 {
		fmt.Println("No sources configured.")
		return nil
	}

	nameWidth := runewidth.StringWidth("Name")
	fileWidth := runewidth.StringWidth("File")
	for _, s := range globalCfg.Sources {
		nameWidth = max(nameWidth, runewidth.StringWidth(s.Name))
		fileWidth = max(fileWidth, runewidth.StringWidth(s.FileName()))
	}

	fmt.Println("Configured Sources")
	fmt.Println("==================")
	fmt.Println("")
	fmt.Printf("%s  %s  %s\n",
		runewidth.FillRight("Name", nameWidth),
		runewidth.FillRight("File", fileWidth),
		"URL")
	fmt.Println(strings.Repeat("-", nameWidth+fileWidth+sourcesURLWidth+4))

	for _, s := range globalCfg.Sources {
		fmt.Printf("%s  %s  %s\n",
			runewidth.FillRight(s.Name, nameWidth),
			runewidth.FillRight(s.FileName(), fileWidth),
			runewidth.Truncate(s.URL, sourcesURLWidth, "..."))
	}
	fmt.Println("")

	return nil
}
