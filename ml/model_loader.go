package ml

import (
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// PipelineConfig controls how the pipeline is built.
type PipelineConfig struct {
	Target    string
	CacheSize int
}

// Pipeline owns the dataset and the model fit from it. It is built once per
// process and shared by handle; the model is never refit.
type Pipeline struct {
	target  string
	dataset *Dataset
	model   RiskModel
	cache   *lru.Cache[PatientQuery, Prediction]
	logger  *zap.Logger
}

// NewPipeline loads the dataset from source and trains the model.
func NewPipeline(source DatasetSource, config PipelineConfig, logger *zap.Logger) (*Pipeline, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: no dataset source", ErrDataUnavailable)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Target == "" {
		config.Target = TargetColumn
	}

	start := time.Now()
	ds, err := source.Load()
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded",
		zap.Stringer("source", sourceName{source}),
		zap.Int("rows", ds.Len()),
		zap.Strings("columns", ds.Columns()))

	model, err := TrainWithTarget(ds, config.Target)
	if err != nil {
		return nil, err
	}
	diag := model.Diagnostics()
	logger.Info("model trained",
		zap.String("target", config.Target),
		zap.Int("features", len(model.Features())),
		zap.Float64("intercept", model.Intercept()),
		zap.Float64("r_squared", diag.RSquared),
		zap.Float64("rmse", diag.RMSE),
		zap.Duration("elapsed", time.Since(start)))

	return NewPipelineFromModel(ds, model, config, logger)
}

// NewPipelineFromModel wraps an already fitted model.
func NewPipelineFromModel(ds *Dataset, model RiskModel, config PipelineConfig, logger *zap.Logger) (*Pipeline, error) {
	if ds == nil || model == nil {
		return nil, errors.New("dataset and model are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Target == "" {
		config.Target = TargetColumn
	}
	p := &Pipeline{
		target:  config.Target,
		dataset: ds,
		model:   model,
		logger:  logger,
	}
	if config.CacheSize > 0 {
		cache, err := lru.New[PatientQuery, Prediction](config.CacheSize)
		if err != nil {
			return nil, err
		}
		p.cache = cache
	}
	return p, nil
}

func (p *Pipeline) Target() string {
	return p.target
}

func (p *Pipeline) Dataset() *Dataset {
	return p.dataset
}

func (p *Pipeline) Model() RiskModel {
	return p.model
}

// Predict scores one patient. Identical queries are answered from the cache.
func (p *Pipeline) Predict(q PatientQuery) (Prediction, error) {
	if p.cache != nil {
		if cached, ok := p.cache.Get(q); ok {
			return cached.clone(), nil
		}
	}
	scores, err := p.model.Predict(q.Frame())
	if err != nil {
		return Prediction{}, err
	}
	if len(scores) != 1 {
		return Prediction{}, fmt.Errorf("model returned %d scores for one patient", len(scores))
	}
	prediction := NewPrediction(scores[0])
	prediction.Warnings = q.Warnings()
	if p.cache != nil {
		p.cache.Add(q, prediction.clone())
	}
	p.logger.Debug("prediction",
		zap.Float64("score", prediction.Score),
		zap.String("level", string(prediction.Level)))
	return prediction, nil
}

// PredictFrame scores every row of frame.
func (p *Pipeline) PredictFrame(frame *Frame) ([]Prediction, error) {
	scores, err := p.model.Predict(frame)
	if err != nil {
		return nil, err
	}
	predictions := make([]Prediction, len(scores))
	for i, score := range scores {
		predictions[i] = NewPrediction(score)
	}
	return predictions, nil
}

type sourceName struct {
	source DatasetSource
}

func (s sourceName) String() string {
	if named, ok := s.source.(fmt.Stringer); ok {
		return named.String()
	}
	return fmt.Sprintf("%T", s.source)
}
