package formula

import (
	"encoding/json"
	"image"
	"os"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"golang.org/x/image/draw"

	"pdf2latex/internal/logger"
	"pdf2latex/internal/types"
)

// Model input raster size. The ONNX model expects a fixed-size
// single-channel image.
const (
	inputHeight = 96
	inputWidth  = 384
	maxTokens   = 256
)

// Special vocabulary tokens.
const (
	tokenPad = "<pad>"
	tokenEnd = "</s>"
)

var ortInit sync.Once

// Model is an ONNX formula recognizer. It holds one session and its
// bound input and output tensors, so it must not be used concurrently.
type Model struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	vocab   []string
}

// NewModel loads the ONNX model at modelPath. The token vocabulary is
// read from the JSON file next to the model (same path with a
// ".vocab.json" suffix).
func NewModel(modelPath string) (*Model, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrModel,
			"formula model not found", modelPath, err)
	}

	vocab, err := loadVocab(modelPath + ".vocab.json")
	if err != nil {
		return nil, err
	}

	var initErr error
	ortInit.Do(func() {
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return nil, types.NewAppError(types.ErrModel,
			"failed to initialize onnxruntime", initErr)
	}

	input, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, 1, inputHeight, inputWidth))
	if err != nil {
		return nil, types.NewAppError(types.ErrModel, "failed to create input tensor", err)
	}

	output, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, maxTokens, int64(len(vocab))))
	if err != nil {
		input.Destroy()
		return nil, types.NewAppError(types.ErrModel, "failed to create output tensor", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.Value{input}, []ort.Value{output}, nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, types.NewAppError(types.ErrModel, "failed to load formula model", err)
	}

	logger.Info("loaded formula model",
		logger.String("path", modelPath),
		logger.Int("vocab", len(vocab)))

	return &Model{
		session: session,
		input:   input,
		output:  output,
		vocab:   vocab,
	}, nil
}

// loadVocab reads the token vocabulary, a JSON array of strings indexed
// by model output class
func loadVocab(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrModel,
			"formula vocabulary not found", path, err)
	}

	var vocab []string
	if err := json.Unmarshal(data, &vocab); err != nil {
		return nil, types.NewAppError(types.ErrModel,
			"invalid formula vocabulary", err)
	}
	if len(vocab) == 0 {
		return nil, types.NewAppErrorWithDetails(types.ErrModel,
			"empty formula vocabulary", path, nil)
	}
	return vocab, nil
}

// Recognize runs the model over a formula raster and decodes the output
// token sequence greedily
func (m *Model) Recognize(img *image.Gray) (string, error) {
	fillInput(m.input.GetData(), img)

	if err := m.session.Run(); err != nil {
		return "", types.NewAppError(types.ErrModel, "formula inference failed", err)
	}

	return decodeTokens(m.output.GetData(), m.vocab), nil
}

// Close releases the session and its tensors
func (m *Model) Close() error {
	m.session.Destroy()
	m.input.Destroy()
	m.output.Destroy()
	return nil
}

// fillInput scales the raster to the model's input size and writes it as
// normalized floats, ink high
func fillInput(dst []float32, img *image.Gray) {
	scaled := image.NewGray(image.Rect(0, 0, inputWidth, inputHeight))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	for i, v := range scaled.Pix {
		dst[i] = 1 - float32(v)/255
	}
}

// decodeTokens converts per-step class scores into LaTeX by greedy argmax
func decodeTokens(scores []float32, vocab []string) string {
	var tokens []string
	classes := len(vocab)

	for step := 0; step < maxTokens; step++ {
		best, bestScore := 0, float32(0)
		for class := 0; class < classes; class++ {
			score := scores[step*classes+class]
			if class == 0 || score > bestScore {
				best, bestScore = class, score
			}
		}

		token := vocab[best]
		if token == tokenEnd {
			break
		}
		if token == tokenPad {
			continue
		}
		tokens = append(tokens, token)
	}

	return strings.Join(tokens, " ")
}
