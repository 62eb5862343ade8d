package config

import "tubegrab/internal/media/format"

const (
	defaultConfigPath     = "~/.config/tubegrab/config.toml"
	defaultDestinationDir = "~/Music/YouTube"
	defaultTransientDir   = "yt_temp"
	defaultStateDir       = "~/.local/state/tubegrab"
	defaultRenameMode     = RenameAuto
	defaultYTDLPBinary    = "yt-dlp"
	defaultFFmpegBinary   = "ffmpeg"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Rename modes accepted by acquisition.rename.
const (
	RenamePrompt = "prompt"
	RenameKeep   = "keep"
	RenameAuto   = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DestinationDir: defaultDestinationDir,
			TransientDir:   defaultTransientDir,
			StateDir:       defaultStateDir,
		},
		Acquisition: Acquisition{
			TargetBitrate: format.DefaultBitrateKbps,
			Rename:        defaultRenameMode,
			TagAudio:      true,
			Overwrite:     true,
		},
		Tools: Tools{
			YTDLP:  defaultYTDLPBinary,
			FFmpeg: defaultFFmpegBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
