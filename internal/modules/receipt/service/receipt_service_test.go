package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"siapkit/internal/modules/receipt/domain"
	receiptout "siapkit/internal/modules/receipt/port/out"
	"siapkit/internal/modules/receipt/service"
	apperrors "siapkit/internal/platform/errors"
)

type fakeLoader struct {
	students []domain.Student
}

func (l fakeLoader) Load(context.Context, string) ([]domain.Student, error) {
	return l.students, nil
}

type fakeInspector struct {
	size domain.PageSize
	err  error
}

func (i fakeInspector) PageSize(context.Context, string) (domain.PageSize, error) {
	return i.size, i.err
}

type fakeRenderer struct {
	sizes    []domain.PageSize
	overlays []string
	err      error
}

func (r *fakeRenderer) Render(_ context.Context, path string, size domain.PageSize, _ []domain.Placement) error {
	if r.err != nil {
		return r.err
	}
	r.sizes = append(r.sizes, size)
	r.overlays = append(r.overlays, path)
	return os.WriteFile(path, []byte("overlay"), 0o644)
}

type fakeMerger struct{}

func (fakeMerger) Merge(_ context.Context, _, overlay, output string) error {
	if _, err := os.Stat(overlay); err != nil {
		return err
	}
	return os.WriteFile(output, []byte("receipt"), 0o644)
}

type fixture struct {
	dir      string
	input    string
	template string
	out      string
	renderer *fakeRenderer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:      dir,
		input:    filepath.Join(dir, "dados_aluno.csv"),
		template: filepath.Join(dir, "modelo_pdf.pdf"),
		out:      filepath.Join(dir, "PDFs_Gerados"),
		renderer: &fakeRenderer{},
	}
	for _, path := range []string{f.input, f.template} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return f
}

func (f fixture) service(inspector receiptout.TemplateInspector, students ...domain.Student) *service.ReceiptService {
	return service.NewReceiptService(
		map[string]receiptout.DatasetLoader{".csv": fakeLoader{students: students}},
		inspector,
		f.renderer,
		fakeMerger{},
		nil,
	)
}

func (f fixture) request() service.Request {
	return service.Request{Input: f.input, Template: f.template, OutputDir: f.out}
}

func TestGenerateWritesOneReceiptPerRecord(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	letter := domain.PageSize{Width: 612, Height: 792}
	svc := f.service(fakeInspector{size: letter}, domain.Student{Name: "Ana", Class: "9A"}, domain.Student{Class: "9A"})

	report, err := svc.Generate(context.Background(), f.request())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(report.Generated) != 2 || len(report.Skipped) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	for _, name := range []string{"9A_termo_de_entrega_Ana.pdf", "9A_termo_de_entrega_Sem_Nome.pdf"} {
		if _, err := os.Stat(filepath.Join(f.out, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	overlay := filepath.Join(f.out, service.DefaultOverlayName)
	if f.renderer.overlays[0] != overlay || f.renderer.overlays[1] != overlay {
		t.Fatalf("overlay should be reused: %v", f.renderer.overlays)
	}
	if _, err := os.Stat(overlay); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("overlay should be removed, stat err=%v", err)
	}
	if f.renderer.sizes[0] != letter {
		t.Fatalf("template size not used: %+v", f.renderer.sizes[0])
	}
}

func TestGenerateMissingInputAborts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := f.request()
	req.Input = filepath.Join(f.dir, "nope.csv")
	_, err := f.service(fakeInspector{size: domain.A4}).Generate(context.Background(), req)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := os.Stat(f.out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output dir should not be created")
	}
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := f.request()
	req.Input = filepath.Join(f.dir, "alunos.ods")
	if err := os.WriteFile(req.Input, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := f.service(fakeInspector{size: domain.A4}).Generate(context.Background(), req)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGenerateMissingTemplateSkipsEachRecord(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := f.request()
	req.Template = filepath.Join(f.dir, "missing.pdf")
	report, err := f.service(fakeInspector{size: domain.A4}, domain.Student{Name: "Ana"}, domain.Student{Name: "Bia"}).Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("missing template must not abort: %v", err)
	}
	if len(report.Generated) != 0 || len(report.Skipped) != 2 || len(f.renderer.overlays) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestGenerateFallsBackToA4(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.service(fakeInspector{err: errors.New("malformed xref")}, domain.Student{Name: "Ana"}).Generate(context.Background(), f.request())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(f.renderer.sizes) != 1 || f.renderer.sizes[0] != domain.A4 {
		t.Fatalf("expected A4 fallback, got %+v", f.renderer.sizes)
	}
}

func TestGenerateRenderFailureAbortsAndCleansUp(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	boom := errors.New("font missing")
	f.renderer.err = boom
	overlay := filepath.Join(f.dir, "scratch.pdf")
	if err := os.WriteFile(overlay, []byte("stale"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	req := f.request()
	req.Overlay = overlay
	_, err := f.service(fakeInspector{size: domain.A4}, domain.Student{Name: "Ana"}).Generate(context.Background(), req)
	if !errors.Is(err, boom) {
		t.Fatalf("expected render error, got %v", err)
	}
	if _, err := os.Stat(overlay); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("overlay should be removed after a failure")
	}
}
