package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inklusif-kerja/gesturecli/commands"
	"github.com/inklusif-kerja/gesturecli/gestures"
	"github.com/spf13/cobra"
)

var gestureCmd = &cobra.Command{
	Use:   "gesture",
	Short: "Gesture classification commands",
	Long:  `Classify pointer movements, replay recorded traces and list gesture actions.`,
}

var gestureClassifyCmd = &cobra.Command{
	Use:   "classify [x,y,t] [x,y,t]",
	Short: "Classify the movement between two pointer samples",
	Long: `Classifies the straight line between a start and an end sample. Each sample
is given as "x,y,t" where t is a timestamp in milliseconds.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseSample(args[0])
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}

		end, err := parseSample(args[1])
		if err != nil {
			return printResponse(commands.NewErrorResponse(err))
		}

		req := commands.ClassifyRequest{
			Start: start,
			End:   end,
		}

		return printResponse(commands.ClassifyCommand(req))
	},
}

var gestureReplayCmd = &cobra.Command{
	Use:   "replay [trace.jsonl]",
	Short: "Replay a recorded pointer trace",
	Long: `Feeds a trace of JSON events, one per line, through a classifier and prints
the gestures detected. Each event has "phase", "x", "y" and "timestampMs".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := commands.ReplayRequest{
			Path: args[0],
		}

		return printResponse(commands.ReplayCommand(req))
	},
}

var gestureActionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the action bound to each gesture",
	Long:  `Lists the job listing action, announcement and vibration pattern for every gesture.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang := language
		if lang == "" {
			lang = commands.GetConfig().Feedback.Language
		}

		return printResponse(commands.ActionsCommand(lang))
	},
}

// parseSample parses "x,y,t"
func parseSample(s string) (gestures.PointerSample, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return gestures.PointerSample{}, fmt.Errorf("invalid sample format. Expected 'x,y,t', got '%s'", s)
	}

	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	t, errT := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if errX != nil || errY != nil || errT != nil {
		return gestures.PointerSample{}, fmt.Errorf("invalid sample values. x and y must be numbers and t an integer. Got x='%s', y='%s', t='%s'", parts[0], parts[1], parts[2])
	}

	return gestures.PointerSample{X: x, Y: y, TimestampMs: t}, nil
}

func init() {
	rootCmd.AddCommand(gestureCmd)

	gestureCmd.AddCommand(gestureClassifyCmd)
	gestureCmd.AddCommand(gestureReplayCmd)
	gestureCmd.AddCommand(gestureActionsCmd)

	gestureActionsCmd.Flags().StringVar(&language, "language", "", "Announcement language, 'id' or 'en' (default from config)")
}
