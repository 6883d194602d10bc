package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/deppfellow/crop-recommendation/internal/lib/utils"
	"github.com/deppfellow/crop-recommendation/internal/model"
	"github.com/deppfellow/crop-recommendation/internal/service"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

func modelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "model",
		Aliases: []string{"m"},
		Value:   "model.json",
		Usage:   "Path to the model artifact (.json, .yaml or .yml)",
		Sources: cli.EnvVars("CROP_MODEL.PATH"),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"o"},
		Value:   formatJSON,
		Usage:   "Output format (supported values: json, yaml, text)",
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "crop-predict",
		Usage: "Recommend a crop from soil and weather measurements",
		Commands: []*cli.Command{
			predictCmd(),
			infoCmd(),
		},
	}
}

func featureFlags() []cli.Flag {
	usage := map[string]string{
		"N":           "Nitrogen content of the soil (ppm)",
		"P":           "Phosphorus content of the soil (ppm)",
		"K":           "Potassium content of the soil (ppm)",
		"temperature": "Average temperature (°C)",
		"humidity":    "Relative humidity (%)",
		"ph":          "Soil pH",
		"rainfall":    "Rainfall (mm)",
	}

	flags := make([]cli.Flag, 0, len(model.FeatureNames))
	for _, name := range model.FeatureNames {
		flags = append(flags, &cli.FloatFlag{
			Name:     strings.ToLower(name),
			Usage:    usage[name],
			Required: true,
		})
	}
	return flags
}

func predictCmd() *cli.Command {
	flags := featureFlags()
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Reject measurements outside the agronomic ranges",
		},
		modelFlag(),
		formatFlag(),
	)

	return &cli.Command{
		Name:  "predict",
		Usage: "Predict the crop for one set of measurements",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			classifier, err := model.Load(cmd.String("model"))
			if err != nil {
				return err
			}

			var features model.Features
			for _, name := range model.FeatureNames {
				features.Set(name, cmd.Float(strings.ToLower(name)))
			}

			label, err := service.NewPredictionService(classifier, cmd.Bool("strict")).Predict(ctx, features)
			if err != nil {
				return fmt.Errorf("prediction failed: %w", err)
			}

			return writePrediction(cmd.Root().Writer, format, label)
		},
	}
}

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show metadata of a model artifact",
		Flags: []cli.Flag{modelFlag(), formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			classifier, err := model.Load(cmd.String("model"))
			if err != nil {
				return err
			}

			return writeInfo(cmd.Root().Writer, format, classifier.Info())
		},
	}
}

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case formatJSON, formatYAML, formatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format: %q", s)
	}
}

type predictionOutput struct {
	Prediction string `json:"prediction" yaml:"prediction"`
}

func writePrediction(w io.Writer, format, label string) error {
	switch format {
	case formatText:
		_, err := fmt.Fprintf(w, "Recommended crop: %s\n", cases.Title(language.English).String(label))
		return err
	case formatYAML:
		return writeYAML(w, predictionOutput{Prediction: label})
	default:
		return utils.WriteJSON(w, predictionOutput{Prediction: label})
	}
}

func writeInfo(w io.Writer, format string, info model.Info) error {
	switch format {
	case formatText:
		title := cases.Title(language.English)
		classes := make([]string, len(info.Classes))
		for i, c := range info.Classes {
			classes[i] = title.String(c)
		}
		_, err := fmt.Fprintf(w, "Type:     %s\nVersion:  %s\nTrees:    %d\nFeatures: %s\nCrops:    %s\n",
			info.Type, info.Version, info.Trees,
			strings.Join(info.Features, ", "),
			strings.Join(classes, ", "))
		return err
	case formatYAML:
		return writeYAML(w, info)
	default:
		return utils.WriteJSON(w, info)
	}
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
