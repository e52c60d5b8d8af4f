package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bemyeyes/internal/app"
)

var detectConfidence float64

var rootCmd = &cobra.Command{
	Use:   "bemyeyes",
	Short: "Accessibility detection service",
	Long: `bemyeyes - object detection with accessibility captions and speech.

Uploads are detected with a YOLO model, described for visually impaired
users through a vision-language model, and the description is synthesized
to speech audio.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP detection service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect [image]",
	Short: "Run the detection pipeline once on a local image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApp()
		if err != nil {
			return err
		}
		defer application.Close()

		confidence := application.Config().ClampConfidence(detectConfidence)
		result := application.Pipeline().Run(context.Background(), args[0], confidence)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("detection failed: %s", result.Error)
		}
		return nil
	},
}

func runServe() error {
	application, err := app.NewApp()
	if err != nil {
		return err
	}
	defer application.Close()
	return application.Run()
}

func main() {
	detectCmd.Flags().Float64VarP(&detectConfidence, "confidence", "c", 0.5, "confidence threshold")
	rootCmd.AddCommand(serveCmd, detectCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
