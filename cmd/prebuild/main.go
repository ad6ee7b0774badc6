// Command prebuild applies config plugins to the native projects of an app.
package main

import (
	"fmt"
	"os"

	"github.com/eppisapiafsl/expo-cli/pkg/ui/styles"
)

func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Render("Error", fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
