package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/diffeq/internal/solve"
)

type ExportData struct {
	Model       string      `json:"model"`
	Scheme      string      `json:"scheme"`
	Controller  string      `json:"controller"`
	T0          float64     `json:"t0"`
	T1          float64     `json:"t1"`
	Dt0         float64     `json:"dt0"`
	Status      string      `json:"status"`
	Steps       int         `json:"steps"`
	Rejected    int         `json:"rejected"`
	Evaluations int         `json:"evaluations"`
	EventT      *float64    `json:"event_t,omitempty"`
	Times       []float64   `json:"times"`
	States      [][]float64 `json:"states"`
}

func buildExport(model, scheme, controller string, t0, t1, dt0 float64, sol *solve.Solution) ExportData {
	data := ExportData{
		Model:       model,
		Scheme:      scheme,
		Controller:  controller,
		T0:          t0,
		T1:          t1,
		Dt0:         dt0,
		Status:      sol.Status.String(),
		Steps:       sol.Stats.Steps,
		Rejected:    sol.Stats.Rejected,
		Evaluations: sol.Stats.Evaluations,
		Times:       sol.Ts,
		States:      make([][]float64, len(sol.Ys)),
	}

	if sol.Status == solve.StatusEventTerminated {
		et := sol.EventT
		data.EventT = &et
	}

	for i, y := range sol.Ys {
		data.States[i] = y
	}

	return data
}

func writeExport(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, model, scheme, controller string, t0, t1, dt0 float64, sol *solve.Solution) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return writeExport(file, buildExport(model, scheme, controller, t0, t1, dt0, sol))
}

func ExportJSONStdout(model, scheme, controller string, t0, t1, dt0 float64, sol *solve.Solution) error {
	return writeExport(os.Stdout, buildExport(model, scheme, controller, t0, t1, dt0, sol))
}
