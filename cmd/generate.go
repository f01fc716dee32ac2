package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"pitchforge/internal/deck"
	"pitchforge/internal/model"
	"pitchforge/internal/storage"
)

// cliSession 命令行生成的演示文稿保存在这个会话下
const cliSession = "cli"

var (
	genIdea    string
	genUseCase string
	genTheme   string
	genExport  string
	genOutDir  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one pitch deck and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deck.ValidateIdea(genIdea); err != nil {
			return err
		}
		useCase, err := model.ParseUseCase(genUseCase)
		if err != nil {
			return err
		}
		theme, err := model.ParseTheme(genTheme)
		if err != nil {
			return err
		}
		if genExport != "" {
			if _, err := deck.ExportFilename(genExport, time.Now()); err != nil {
				return err
			}
		}

		rt, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		d, err := rt.generator.GenerateDeck(cmd.Context(), genIdea, useCase, theme)
		if err != nil {
			return err
		}
		if err := storage.SaveDeck(cmd.Context(), rt.store, cliSession, d); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, s := range d.Slides {
			fmt.Fprintf(out, "Slide %d: %s [%s]\n%s\n\n", i+1, s.Title, s.Origin, s.Content)
		}
		if d.Degraded() {
			fmt.Fprintf(out, "%d of %d slides use fallback content\n", d.FallbackCount(), len(d.Slides))
		}

		if genExport == "" {
			return nil
		}
		name, _ := deck.ExportFilename(genExport, time.Now())
		path := filepath.Join(genOutDir, name)
		if err := os.WriteFile(path, []byte(deck.ExportText(d)), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(out, "Exported to %s\n", path)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&genIdea, "idea", "i", "", "Business idea, at least 50 characters")
	generateCmd.Flags().StringVarP(&genUseCase, "use-case", "u", string(model.DefaultUseCase), "startup | app | hackathon | agency")
	generateCmd.Flags().StringVarP(&genTheme, "theme", "t", string(model.DefaultTheme), "modern | corporate | minimal")
	generateCmd.Flags().StringVar(&genExport, "export", "", "Write a text export: pdf | pptx | mp4 | image")
	generateCmd.Flags().StringVarP(&genOutDir, "out", "o", ".", "Export directory")
	generateCmd.MarkFlagRequired("idea")
}
