// Command podwave-episode runs the episode pipeline without the daemon:
// generate one episode, browse the voice catalog, preview a voice, or
// validate a preset file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/podwavelabs/podwave-core/internal/article"
	"github.com/podwavelabs/podwave-core/internal/config"
	"github.com/podwavelabs/podwave-core/internal/episode"
	"github.com/podwavelabs/podwave-core/internal/preset"
	"github.com/podwavelabs/podwave-core/internal/script"
	"github.com/podwavelabs/podwave-core/internal/tts"
)

var version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "expected 'generate', 'voices', 'preview', 'validate' or 'version'")
		os.Exit(2)
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(ctx, os.Args[2:])
	case "voices":
		err = runVoices(ctx, os.Args[2:])
	case "preview":
		err = runPreview(ctx, os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		if _, err := os.Stat("podwave.yaml"); err == nil {
			path = "podwave.yaml"
		}
	}
	return config.Load(path)
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "Path to configuration file")
		url        = fs.String("url", "", "Article URL to convert")
		textFile   = fs.String("text-file", "", "Read article text from a file instead of a URL")
		title      = fs.String("title", "", "Article title when using -text-file")
		outDir     = fs.String("out", "", "Output directory (defaults to episode.output_dir)")
		presetFile = fs.String("presets", "", "Voice preset file")
		presetName = fs.String("preset", "", "Preset name from the preset file")
		hostVoice  = fs.String("host-voice", "", "Host voice id (overrides config and preset)")
		guestVoice = fs.String("guest-voice", "", "Guest voice id (overrides config and preset)")
		pauseMS    = fs.Int("pause", -1, "Inter-turn pause in milliseconds")
	)
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	var art article.Article
	switch {
	case *url != "":
		extractor := article.NewHTTPExtractor(cfg.Article)
		art, err = extractor.Extract(ctx, *url)
		if err != nil {
			return err
		}
	case *textFile != "":
		data, err := os.ReadFile(*textFile)
		if err != nil {
			return err
		}
		art = article.Article{Title: *title, Text: string(data)}
	default:
		return fmt.Errorf("either -url or -text-file is required")
	}

	generator, err := script.NewGenerator(cfg.Script)
	if err != nil {
		return err
	}
	scriptReq := script.RequestFromConfig(cfg.Script)
	scriptReq.Title = art.Title
	scriptReq.Text = art.Text

	fmt.Fprintf(os.Stderr, "generating script for %q\n", art.Title)
	turns, err := generator.Generate(ctx, scriptReq)
	if err != nil {
		return err
	}

	job := episode.Job{
		Turns:       turns,
		HostVoice:   cfg.Episode.HostVoice,
		GuestVoice:  cfg.Episode.GuestVoice,
		PauseMS:     cfg.Episode.PauseMS,
		TurnDelayMS: cfg.Episode.TurnDelayMS,
		PreferWAV:   cfg.Episode.PreferWAV,
	}
	if *presetFile != "" {
		file, err := preset.Load(*presetFile)
		if err != nil {
			return err
		}
		if err := preset.Validate(file); err != nil {
			return err
		}
		p, err := preset.Lookup(file, *presetName)
		if err != nil {
			return err
		}
		job.HostVoice, job.GuestVoice = p.HostVoice, p.GuestVoice
		if p.PauseMS > 0 {
			job.PauseMS = p.PauseMS
		}
	}
	if *hostVoice != "" {
		job.HostVoice = *hostVoice
	}
	if *guestVoice != "" {
		job.GuestVoice = *guestVoice
	}
	if *pauseMS >= 0 {
		job.PauseMS = *pauseMS
	}
	if job.HostVoice == "" || job.GuestVoice == "" {
		return fmt.Errorf("host and guest voices are required (flags, preset, or config)")
	}

	assembler := episode.NewAssembler(buildSynthesizer(cfg), cfg.Episode.FilenamePrefix)
	result, err := assembler.Assemble(ctx, job, func(percent int, message string) {
		fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, message)
	})
	if err != nil {
		return err
	}

	dir := cfg.Episode.OutputDir
	if *outDir != "" {
		dir = *outDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, result.Filename)
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runVoices(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("voices", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if cfg.TTS.APIKey == "" {
		return fmt.Errorf("tts.api_key is required to list voices")
	}

	voices, err := tts.NewElevenLabs(cfg.TTS).Voices(ctx)
	if err != nil {
		return err
	}
	for _, v := range voices {
		line := v.ID + "\t" + v.Name
		if v.Category != "" {
			line += "\t(" + v.Category + ")"
		}
		fmt.Println(line)
	}
	return nil
}

func runPreview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "Path to configuration file")
		voiceID    = fs.String("voice", "", "Voice id to preview")
		text       = fs.String("text", "", "Preview text (optional)")
		out        = fs.String("out", "preview.mp3", "Output file")
	)
	fs.Parse(args)

	if *voiceID == "" {
		return fmt.Errorf("-voice is required")
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if cfg.TTS.APIKey == "" {
		return fmt.Errorf("tts.api_key is required to preview a voice")
	}

	body, err := tts.NewElevenLabs(cfg.TTS).Preview(ctx, *voiceID, *text)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, body, 0o644); err != nil {
		return err
	}
	fmt.Println(*out)
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	file := fs.String("file", "voices.yaml", "Path to voice preset file")
	fs.Parse(args)

	f, err := preset.Load(*file)
	if err != nil {
		return err
	}
	if err := preset.Validate(f); err != nil {
		return err
	}
	names := make([]string, 0, len(f.Presets))
	for _, p := range f.Presets {
		names = append(names, p.Name)
	}
	fmt.Printf("presets valid: %s\n", strings.Join(names, ", "))
	return nil
}

func buildSynthesizer(cfg config.Config) tts.Synthesizer {
	if cfg.TTS.APIKey == "" {
		fmt.Fprintln(os.Stderr, "no tts api key configured, using mock synthesizer")
		return tts.NewMockSynth(44100, 1)
	}
	return tts.WithRetry(tts.NewElevenLabs(cfg.TTS), cfg.TTS.MaxRetries)
}
