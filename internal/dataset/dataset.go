package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/driftml/sweep-runner/internal/config"
	"github.com/driftml/sweep-runner/internal/services/objectstore"
	"github.com/driftml/sweep-runner/internal/services/uploader"
	"go.uber.org/zap"
)

// Preparer turns the raw downloaded dataset into the four scaled array files
// a training job consumes, and stages them to the object store.
type Preparer struct {
	cfg      *config.Config
	store    objectstore.ObjectStore
	uploader *uploader.Uploader
	logger   *zap.Logger
}

type Prepared struct {
	XTrainPath string
	YTrainPath string
	XTestPath  string
	YTestPath  string

	// Set by Stage.
	TrainUri string
	TestUri  string
}

func NewPreparer(cfg *config.Config, store objectstore.ObjectStore, up *uploader.Uploader, logger *zap.Logger) *Preparer {
	return &Preparer{
		cfg:      cfg,
		store:    store,
		uploader: up,
		logger:   logger,
	}
}

// Prepare downloads the dataset if needed, splits it into disjoint train and
// test partitions, fits the scaler on the training features only, applies it
// to both partitions and writes the four array files. Re-running overwrites
// the local files.
func (p *Preparer) Prepare(ctx context.Context) (*Prepared, error) {
	dsCfg := p.cfg.Dataset
	if dsCfg == nil {
		return nil, fmt.Errorf("dataset config is not set")
	}

	rawPath := filepath.Join(p.cfg.DataDir, "raw.csv")
	if err := Fetch(ctx, dsCfg.URL, rawPath, p.logger); err != nil {
		return nil, err
	}

	features, labels, err := LoadCSV(rawPath)
	if err != nil {
		return nil, err
	}

	xTrain, xTest, yTrain, yTest := Split(features, labels, dsCfg.TestFraction, dsCfg.Seed)

	p.logger.Info("partitioned dataset",
		zap.Int("train_rows", len(xTrain)),
		zap.Int("test_rows", len(xTest)),
		zap.Float64("test_fraction", dsCfg.TestFraction),
	)

	var scaler StandardScaler
	xTrainScaled, err := scaler.FitTransform(xTrain)
	if err != nil {
		return nil, err
	}

	xTestScaled, err := scaler.Transform(xTest)
	if err != nil {
		return nil, err
	}

	prepared := &Prepared{
		XTrainPath: filepath.Join(p.cfg.DataDir, "train", "x_train.csv"),
		YTrainPath: filepath.Join(p.cfg.DataDir, "train", "y_train.csv"),
		XTestPath:  filepath.Join(p.cfg.DataDir, "test", "x_test.csv"),
		YTestPath:  filepath.Join(p.cfg.DataDir, "test", "y_test.csv"),
	}

	if err := writeMatrix(prepared.XTrainPath, xTrainScaled); err != nil {
		return nil, err
	}
	if err := writeVector(prepared.YTrainPath, yTrain); err != nil {
		return nil, err
	}
	if err := writeMatrix(prepared.XTestPath, xTestScaled); err != nil {
		return nil, err
	}
	if err := writeVector(prepared.YTestPath, yTest); err != nil {
		return nil, err
	}

	return prepared, nil
}

// Stage uploads the prepared files under the configured key prefix and fills
// in the train/test URIs the training jobs will reference.
func (p *Preparer) Stage(ctx context.Context, prepared *Prepared) error {
	prefix := p.cfg.Dataset.KeyPrefix

	files := map[string]string{
		prefix + "/train/x_train.csv": prepared.XTrainPath,
		prefix + "/train/y_train.csv": prepared.YTrainPath,
		prefix + "/test/x_test.csv":   prepared.XTestPath,
		prefix + "/test/y_test.csv":   prepared.YTestPath,
	}

	uris, err := p.uploader.UploadFiles(ctx, files)
	if err != nil {
		return fmt.Errorf("failed to stage dataset: %w", err)
	}

	prepared.TrainUri = p.store.BaseUri(prefix + "/train")
	prepared.TestUri = p.store.BaseUri(prefix + "/test")

	p.logger.Info("staged dataset",
		zap.Strings("uris", uris),
		zap.String("train_uri", prepared.TrainUri),
		zap.String("test_uri", prepared.TestUri),
	)

	return nil
}

// LoadCSV reads a tabular dataset whose last column is the regression target.
// Non-numeric feature values are label-encoded in order of first appearance.
func LoadCSV(path string) ([][]float64, []float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("dataset %s is empty", path)
	}

	cols := len(records[0])
	if cols < 2 {
		return nil, nil, fmt.Errorf("dataset needs at least one feature column and a target column")
	}

	encodings := make([]map[string]float64, cols-1)

	features := make([][]float64, 0, len(records))
	labels := make([]float64, 0, len(records))

	for i, record := range records {
		if len(record) != cols {
			return nil, nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(record), cols)
		}

		row := make([]float64, cols-1)
		for j := 0; j < cols-1; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				if encodings[j] == nil {
					encodings[j] = make(map[string]float64)
				}
				code, ok := encodings[j][record[j]]
				if !ok {
					code = float64(len(encodings[j]))
					encodings[j][record[j]] = code
				}
				v = code
			}
			row[j] = v
		}

		label, err := strconv.ParseFloat(record[cols-1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d has non-numeric target %q", i, record[cols-1])
		}

		features = append(features, row)
		labels = append(labels, label)
	}

	return features, labels, nil
}

// Split shuffles the row indices with the given seed and carves off the test
// fraction. The partitions are disjoint and cover every row.
func Split(features [][]float64, labels []float64, testFraction float64, seed int64) (xTrain, xTest [][]float64, yTrain, yTest []float64) {
	n := len(features)
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	nTest := int(math.Round(testFraction * float64(n)))
	if nTest > n {
		nTest = n
	}

	for i, idx := range perm {
		if i < nTest {
			xTest = append(xTest, features[idx])
			yTest = append(yTest, labels[idx])
		} else {
			xTrain = append(xTrain, features[idx])
			yTrain = append(yTrain, labels[idx])
		}
	}

	return xTrain, xTest, yTrain, yTest
}

func writeMatrix(path string, rows [][]float64) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	record := make([]string, 0)
	for _, row := range rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeVector(path string, values []float64) error {
	rows := make([][]float64, len(values))
	for i, v := range values {
		rows[i] = []float64{v}
	}

	return writeMatrix(path, rows)
}
