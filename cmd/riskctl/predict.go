package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"healthrisk/ml"
)

func newPredictCmd(opts *options) *cobra.Command {
	q := ml.DefaultPatient()
	var smoking bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one patient",
		Example: `  riskctl predict --age 40 --bmi 25 --blood-pressure 120 --cholesterol 200 --glucose 100
  riskctl predict --age 60 --smoking`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if smoking {
				q.Smoking = 1
			} else {
				q.Smoking = 0
			}
			pipeline, err := opts.pipeline(cmd)
			if err != nil {
				return err
			}
			prediction, err := pipeline.Predict(q)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPrediction(prediction))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&q.Age, "age", q.Age, "age in years")
	flags.Float64Var(&q.BMI, "bmi", q.BMI, "body mass index")
	flags.Float64Var(&q.BloodPressure, "blood-pressure", q.BloodPressure, "systolic blood pressure")
	flags.Float64Var(&q.Cholesterol, "cholesterol", q.Cholesterol, "total cholesterol")
	flags.Float64Var(&q.Glucose, "glucose", q.Glucose, "fasting glucose")
	flags.BoolVar(&smoking, "smoking", q.Smoking == 1, "patient smokes")
	return cmd
}
