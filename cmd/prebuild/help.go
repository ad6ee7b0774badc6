package main

import (
	"embed"
	"io/fs"

	"github.com/eppisapiafsl/expo-cli/pkg/cobrax/topics"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// initTopics adds the embedded help topics to rootCmd
func initTopics(rootCmd *cobra.Command) error {
	sub, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		return err
	}
	_, err = topics.Initialize(rootCmd, sub, topics.Options{
		Extensions: []string{".md"},
		Renderer:   topics.NewGlamourRenderer(),
	})
	return err
}
