package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Target identifies the container/codec an acquisition must produce.
type Target string

const (
	M4A  Target = "m4a"
	MP3  Target = "mp3"
	MP4  Target = "mp4"
	WebM Target = "webm"
	MKV  Target = "mkv"
)

// DefaultBitrateKbps is the bitrate used for mp3 extraction and transcodes
// when configuration leaves it unset.
const DefaultBitrateKbps = 192

// All lists every supported target in flag order.
func All() []Target {
	return []Target{MP3, M4A, MP4, WebM, MKV}
}

// Parse converts user input (with or without a leading dot) to a Target.
func Parse(value string) (Target, error) {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), "."))
	for _, t := range All() {
		if string(t) == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (want one of %s)", value, strings.Join(names(), ", "))
}

// Extension returns the output file extension without the dot.
func (t Target) Extension() string {
	return string(t)
}

// IsAudio reports whether the target is an audio-only container.
func (t Target) IsAudio() bool {
	return t == M4A || t == MP3
}

// Description is the one-line help text used by the CLI.
func (t Target) Description() string {
	switch t {
	case MP3:
		return "Download/convert to MP3"
	case M4A:
		return "Download/convert to M4A (native AAC when available)"
	case MP4:
		return "Download and merge into MP4 (H.264 + AAC/M4A)"
	case WebM:
		return "Download and merge into WEBM (VP9 + Opus)"
	case MKV:
		return "Download and merge into MKV (any codecs)"
	default:
		return ""
	}
}

// Selection is the downloader-side description of a direct acquisition.
type Selection struct {
	// Format is the -f selector expression; empty lets the downloader choose.
	Format string
	// MergeOutput is passed as --merge-output-format when set.
	MergeOutput string
	// RemuxVideo rewraps single-file results that skipped the merge step.
	RemuxVideo string
	// ExtractAudio asks the downloader to post-process into AudioFormat.
	ExtractAudio bool
	AudioFormat  string
	AudioQuality string
}

// Direct builds the single-step selection for t. maxHeight <= 0 disables the
// height filter; it is ignored for audio targets.
func Direct(t Target, maxHeight, bitrateKbps int) (Selection, error) {
	if bitrateKbps <= 0 {
		bitrateKbps = DefaultBitrateKbps
	}
	h := heightFilter(maxHeight)
	switch t {
	case M4A:
		return Selection{Format: "bestaudio[ext=m4a]"}, nil
	case MP3:
		return Selection{
			ExtractAudio: true,
			AudioFormat:  "mp3",
			AudioQuality: strconv.Itoa(bitrateKbps) + "K",
		}, nil
	case MP4:
		return Selection{
			Format:      "bestvideo" + h + "[ext=mp4]+bestaudio[ext=m4a]/best" + h + "[ext=mp4]",
			MergeOutput: "mp4",
		}, nil
	case WebM:
		return Selection{
			Format:      "bestvideo" + h + "[ext=webm]+bestaudio[ext=webm]/best" + h + "[ext=webm]",
			MergeOutput: "webm",
		}, nil
	case MKV:
		return Selection{
			Format:      "bestvideo" + h + "+bestaudio/best" + h,
			MergeOutput: "mkv",
			RemuxVideo:  "mkv",
		}, nil
	default:
		return Selection{}, fmt.Errorf("unsupported format %q", string(t))
	}
}

// Fallback returns the raw-fetch selector used before a local transcode.
// Audio targets take the best audio-only stream; video targets take the best
// available pair (still honouring the height ceiling) and let the transcoder
// settle the container.
func Fallback(t Target, maxHeight int) string {
	if t.IsAudio() {
		return "bestaudio"
	}
	h := heightFilter(maxHeight)
	return "bestvideo" + h + "+bestaudio/best" + h
}

// TranscodeArgs returns the ffmpeg codec arguments (between input and output)
// that convert any input into t at the given audio bitrate.
func TranscodeArgs(t Target, bitrateKbps int) ([]string, error) {
	if bitrateKbps <= 0 {
		bitrateKbps = DefaultBitrateKbps
	}
	bitrate := strconv.Itoa(bitrateKbps) + "k"
	switch t {
	case M4A:
		return []string{"-c:a", "aac", "-b:a", bitrate}, nil
	case MP3:
		return []string{"-codec:a", "libmp3lame", "-b:a", bitrate}, nil
	case MP4:
		return []string{"-c:v", "libx264", "-preset", "medium", "-crf", "23", "-c:a", "aac", "-b:a", bitrate, "-movflags", "+faststart"}, nil
	case WebM:
		return []string{"-c:v", "libvpx-vp9", "-crf", "32", "-b:v", "0", "-c:a", "libopus", "-b:a", bitrate}, nil
	case MKV:
		return []string{"-c:v", "copy", "-c:a", "aac", "-b:a", bitrate}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", string(t))
	}
}

func heightFilter(maxHeight int) string {
	if maxHeight <= 0 {
		return ""
	}
	return "[height<=?" + strconv.Itoa(maxHeight) + "]"
}

func names() []string {
	all := All()
	out := make([]string, 0, len(all))
	for _, t := range all {
		out = append(out, string(t))
	}
	return out
}
