// Package tflite runs segmentation models exported to TensorFlow Lite.
package tflite

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ArnaudCalmettes/landslide/infer"
	"github.com/mattn/go-tflite"
)

// Model wraps a TensorFlow Lite interpreter. It is safe for concurrent use,
// calls to Infer are serialized.
type Model struct {
	mu          sync.Mutex
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
}

// Load reads a .tflite model and prepares an interpreter for it.
func Load(path string, threads int) (*Model, error) {
	model := tflite.NewModelFromFile(path)
	if model == nil {
		return nil, fmt.Errorf("couldn't load model %s", path)
	}

	options := tflite.NewInterpreterOptions()
	if threads > 0 {
		options.SetNumThread(threads)
	}

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("couldn't create interpreter for %s", path)
	}

	m := &Model{model: model, options: options, interpreter: interpreter}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		m.Close()
		return nil, fmt.Errorf("couldn't allocate tensors for %s", path)
	}
	return m, nil
}

// InputShape returns the shape of the model's first input.
func (m *Model) InputShape() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return shapeOf(m.interpreter.GetInputTensor(0))
}

// Infer copies batch into the model input, runs the model, and returns a
// copy of its first output.
func (m *Model) Infer(ctx context.Context, batch *infer.Tensor) (*infer.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	input := m.interpreter.GetInputTensor(0)
	if input.Type() != tflite.Float32 {
		return nil, errors.New("model input is not float32")
	}
	if err := sameShape(shapeOf(input), batch.Shape); err != nil {
		return nil, err
	}
	copy(input.Float32s(), batch.Data)

	if status := m.interpreter.Invoke(); status != tflite.OK {
		return nil, errors.New("model invocation failed")
	}

	output := m.interpreter.GetOutputTensor(0)
	if output.Type() != tflite.Float32 {
		return nil, errors.New("model output is not float32")
	}
	out := infer.NewTensor(shapeOf(output)...)
	copy(out.Data, output.Float32s())
	return out, nil
}

// Close releases the interpreter and the model.
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.interpreter != nil {
		m.interpreter.Delete()
		m.interpreter = nil
	}
	if m.options != nil {
		m.options.Delete()
		m.options = nil
	}
	if m.model != nil {
		m.model.Delete()
		m.model = nil
	}
	return nil
}

func shapeOf(t *tflite.Tensor) []int {
	shape := make([]int, t.NumDims())
	for i := range shape {
		shape[i] = t.Dim(i)
	}
	return shape
}

func sameShape(want, got []int) error {
	if len(want) != len(got) {
		return fmt.Errorf("batch shape %v doesn't match model input %v", got, want)
	}
	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("batch shape %v doesn't match model input %v", got, want)
		}
	}
	return nil
}
