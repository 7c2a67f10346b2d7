package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/gradplanner/internal/app/catalog"
	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/app/models/dto"
	"github.com/yigit/gradplanner/internal/app/progress"
	"github.com/yigit/gradplanner/internal/app/services"
	"github.com/yigit/gradplanner/internal/app/transcript"
	"github.com/yigit/gradplanner/internal/middleware"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
	"github.com/yigit/gradplanner/internal/pkg/auth"
	"github.com/yigit/gradplanner/internal/pkg/validation"
)

const testCatalogYAML = `
courses:
  - { code: CALC1, name: Calculus I, credits: 4 }
  - { code: CALC2, name: Calculus II, credits: 4, prerequisites: [CALC1] }
  - { code: NET, name: Networks, credits: 4 }
curricula:
  - id: eng
    name: Engineering
    required_credits: 8
    limited_credits: 4
    free_credits: 2
    required: [CALC1, CALC2]
    limited: [NET]
`

// fakeRecordService keeps records in a map keyed by id
type fakeRecordService struct {
	records map[string]models.CourseRecord
	created []models.CourseRecordDraft
	patches []models.CourseRecordPatch
}

func (f *fakeRecordService) Create(_ context.Context, userID string, draft models.CourseRecordDraft) (*models.CourseRecord, error) {
	if draft.Year < 2000 {
		return nil, fmt.Errorf("%w: year out of range", apperrors.ErrValidationFailed)
	}
	f.created = append(f.created, draft)
	record := models.CourseRecord{ID: "new", UserID: userID, Code: draft.Code, Year: draft.Year, Term: draft.Term,
		Category: draft.Category, Status: draft.Status, Grade: draft.Grade}
	f.records[record.ID] = record
	return &record, nil
}

func (f *fakeRecordService) Get(_ context.Context, userID, id string) (*models.CourseRecord, error) {
	record, ok := f.records[id]
	if !ok || record.UserID != userID {
		return nil, apperrors.ErrCourseRecordNotFound
	}
	return &record, nil
}

func (f *fakeRecordService) List(_ context.Context, userID string) ([]models.CourseRecord, error) {
	out := []models.CourseRecord{}
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordService) Update(ctx context.Context, userID, id string, patch models.CourseRecordPatch) (*models.CourseRecord, error) {
	f.patches = append(f.patches, patch)
	return f.Get(ctx, userID, id)
}

func (f *fakeRecordService) Delete(_ context.Context, userID, id string) error {
	record, ok := f.records[id]
	if !ok || record.UserID != userID {
		return apperrors.ErrCourseRecordNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRecordService) Subscribe(context.Context, string, services.SnapshotFunc) (func(), error) {
	return func() {}, nil
}

// fakeTransferService records imports and serves a fixed export
type fakeTransferService struct {
	imported []byte
}

func (f *fakeTransferService) Import(_ context.Context, _ string, data []byte) (*services.ImportResult, error) {
	if _, err := transcript.DetectFormat(data); err != nil {
		return nil, err
	}
	f.imported = data
	return &services.ImportResult{Imported: 2, Format: transcript.FormatTranscript}, nil
}

func (f *fakeTransferService) Export(context.Context, string) ([]byte, error) {
	return []byte(`[]`), nil
}

func (f *fakeTransferService) ExportWorkbook(_ context.Context, _ string, w io.Writer) error {
	_, err := w.Write([]byte("PK"))
	return err
}

// fakeProgressService answers from a fixed record set
type fakeProgressService struct {
	records   []models.CourseRecord
	curricula services.CatalogService
}

func (f *fakeProgressService) Stats(_ context.Context, _ string, curriculumID string) (*models.Stats, error) {
	curriculum, err := f.curricula.ResolveCurriculum(curriculumID)
	if err != nil {
		return nil, err
	}
	stats := progress.ComputeStats(f.records, *curriculum)
	return &stats, nil
}

func (f *fakeProgressService) Snapshot(records []models.CourseRecord, curriculumID string) (*models.Stats, error) {
	return nil, errors.New("not used")
}

func (f *fakeProgressService) Prerequisites(context.Context, string) ([]models.PrerequisiteWarning, error) {
	return []models.PrerequisiteWarning{}, nil
}

func (f *fakeProgressService) Check(_ context.Context, _ string, code string) (*services.PrerequisiteCheck, error) {
	return &services.PrerequisiteCheck{Code: code, Satisfied: false, Missing: []string{"CALC1"}}, nil
}

func (f *fakeProgressService) AverageGrade(context.Context, string) (string, error) {
	return progress.AverageGrade(f.records), nil
}

func (f *fakeProgressService) Timeline(_ context.Context, _ string, filter progress.RecordFilter) ([]models.YearGroup, error) {
	return progress.GroupByPeriod(progress.Filter(f.records, filter)), nil
}

type testAPI struct {
	router   *gin.Engine
	token    string
	records  *fakeRecordService
	transfer *fakeTransferService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())

	store, err := catalog.Parse([]byte(testCatalogYAML))
	require.NoError(t, err)
	catalogService, err := services.NewCatalogService(store, "")
	require.NoError(t, err)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", TokenIssuer: "test"})
	token, err := jwtService.GenerateToken("alice", time.Hour)
	require.NoError(t, err)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	grade := "A"
	records := &fakeRecordService{records: map[string]models.CourseRecord{
		"r1": {ID: "r1", UserID: "alice", Code: "CALC1", Credits: 4, Year: 2024, Term: 1,
			Category: models.CategoryRequired, Status: models.StatusCompleted, Grade: &grade},
		"r2": {ID: "r2", UserID: "bob", Code: "NET", Credits: 4, Year: 2024, Term: 1,
			Category: models.CategoryLimited, Status: models.StatusPlanned},
	}}
	transfer := &fakeTransferService{}
	progressService := &fakeProgressService{records: []models.CourseRecord{records.records["r1"]}, curricula: catalogService}

	catalogController := NewCatalogController(catalogService)
	recordController := NewCourseRecordController(records)
	progressController := NewProgressController(progressService)
	transferController := NewTransferController(transfer)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/curricula", catalogController.ListCurricula)
	v1.GET("/curricula/:id", catalogController.GetCurriculum)
	v1.GET("/curricula/:id/classify/:code", catalogController.Classify)
	v1.GET("/courses", catalogController.SearchCourses)
	v1.GET("/courses/:code", catalogController.GetCourse)

	authed := v1.Group("", authMiddleware.JWTAuth())
	authed.GET("/records", recordController.ListRecords)
	authed.POST("/records", recordController.CreateRecord)
	authed.GET("/records/:id", recordController.GetRecord)
	authed.PATCH("/records/:id", recordController.UpdateRecord)
	authed.DELETE("/records/:id", recordController.DeleteRecord)
	authed.GET("/progress/stats", progressController.GetStats)
	authed.GET("/progress/prerequisites/:code", progressController.CheckPrerequisites)
	authed.GET("/progress/average-grade", progressController.GetAverageGrade)
	authed.GET("/progress/timeline", progressController.GetTimeline)
	authed.POST("/transfer/import", transferController.Import)
	authed.GET("/transfer/export", transferController.Export)

	return &testAPI{router: router, token: token, records: records, transfer: transfer}
}

func (a *testAPI) do(method, path, body string, authenticated bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, into))
}

func TestStatusCodes(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name          string
		method        string
		path          string
		body          string
		authenticated bool
		wantStatus    int
		wantCode      dto.ErrorCode
	}{
		{"curricula are public", http.MethodGet, "/api/v1/curricula", "", false, http.StatusOK, ""},
		{"unknown curriculum", http.MethodGet, "/api/v1/curricula/law", "", false, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"unknown course", http.MethodGet, "/api/v1/courses/NOPE", "", false, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"classify in unknown curriculum", http.MethodGet, "/api/v1/curricula/law/classify/NET", "", false, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"records need a token", http.MethodGet, "/api/v1/records", "", false, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"list records", http.MethodGet, "/api/v1/records", "", true, http.StatusOK, ""},
		{"bad filter", http.MethodGet, "/api/v1/records?status=failed", "", true, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"foreign record", http.MethodGet, "/api/v1/records/r2", "", true, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"missing record delete", http.MethodDelete, "/api/v1/records/nope", "", true, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"create without code", http.MethodPost, "/api/v1/records",
			`{"year":2024,"term":1,"category":"required","status":"completed"}`, true, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"create with bad code", http.MethodPost, "/api/v1/records",
			`{"code":"CALC 1","year":2024,"term":1,"category":"required","status":"completed"}`, true, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"create with bad term", http.MethodPost, "/api/v1/records",
			`{"code":"CALC1","year":2024,"term":4,"category":"required","status":"completed"}`, true, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"service validation", http.MethodPost, "/api/v1/records",
			`{"code":"CALC1","year":1990,"term":1,"category":"required","status":"completed"}`, true, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"patch with bad status", http.MethodPatch, "/api/v1/records/r1", `{"status":"failed"}`, true, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"stats for unknown curriculum", http.MethodGet, "/api/v1/progress/stats?curriculum=law", "", true, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"timeline bad category", http.MethodGet, "/api/v1/progress/timeline?category=core", "", true, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"malformed import", http.MethodPost, "/api/v1/transfer/import", `{"not":"an array"}`, true, http.StatusBadRequest, dto.ErrorCodeMalformedImport},
		{"unknown export format", http.MethodGet, "/api/v1/transfer/export?format=csv", "", true, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.body, tt.authenticated)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Error.Code)
			}
		})
	}
}

func TestCreateRecord(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/records",
		`{"code":"CALC2","year":2025,"term":2,"category":"required","status":"planned"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, api.records.created, 1)
	draft := api.records.created[0]
	assert.Equal(t, "CALC2", draft.Code)
	assert.Equal(t, models.TermSecond, draft.Term)
	assert.Equal(t, models.StatusPlanned, draft.Status)

	var created models.CourseRecord
	decodeData(t, rec, &created)
	assert.Equal(t, "new", created.ID)
}

func TestUpdateRecordPassesPatch(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPatch, "/api/v1/records/r1", `{"status":"planned","clearGrade":true}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, api.records.patches, 1)
	patch := api.records.patches[0]
	require.NotNil(t, patch.Status)
	assert.Equal(t, models.StatusPlanned, *patch.Status)
	assert.True(t, patch.ClearGrade)
	assert.Nil(t, patch.Year)
}

func TestSearchCoursesPaginates(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/courses?search=calc&page=2&size=1", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items      []models.CourseDefinition `json:"items"`
		Pagination dto.PaginationInfo        `json:"pagination"`
	}
	decodeData(t, rec, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "CALC2", page.Items[0].Code)
	assert.Equal(t, 2, page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestClassify(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		code string
		want models.Category
	}{
		{"CALC1", models.CategoryRequired},
		{"NET", models.CategoryLimited},
		{"UNKNOWN", models.CategoryFree},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := api.do(http.MethodGet, "/api/v1/curricula/eng/classify/"+tt.code, "", false)
			require.Equal(t, http.StatusOK, rec.Code)
			var resp dto.ClassificationResponse
			decodeData(t, rec, &resp)
			assert.Equal(t, tt.want, resp.Category)
		})
	}
}

func TestProgressEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/progress/stats", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.Stats
	decodeData(t, rec, &stats)
	assert.Equal(t, "eng", stats.CurriculumID)
	assert.Equal(t, 4, stats.EffectiveCompletedTotal)

	rec = api.do(http.MethodGet, "/api/v1/progress/average-grade", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var avg dto.AverageGradeResponse
	decodeData(t, rec, &avg)
	assert.Equal(t, "A", avg.Grade)

	rec = api.do(http.MethodGet, "/api/v1/progress/prerequisites/CALC2", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var check dto.PrerequisiteCheckResponse
	decodeData(t, rec, &check)
	assert.False(t, check.Satisfied)
	assert.Equal(t, []string{"CALC1"}, check.Missing)

	rec = api.do(http.MethodGet, "/api/v1/progress/timeline?status=completed", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []models.YearGroup
	decodeData(t, rec, &groups)
	require.Len(t, groups, 1)
	assert.Equal(t, 2024, groups[0].Year)
}

func TestImportAndExport(t *testing.T) {
	api := newTestAPI(t)

	body := `[{"code":"CALC1","period":"2024.1","category":"OBR","status":"APR"}]`
	rec := api.do(http.MethodPost, "/api/v1/transfer/import", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, body, string(api.transfer.imported))

	var result dto.ImportResponse
	decodeData(t, rec, &result)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, "transcript", result.Format)

	rec = api.do(http.MethodGet, "/api/v1/transfer/export", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".json")

	rec = api.do(http.MethodGet, "/api/v1/transfer/export?format=xlsx", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
}

func TestImportTooLarge(t *testing.T) {
	api := newTestAPI(t)

	body := "[" + strings.Repeat(" ", maxImportSize) + "]"
	rec := api.do(http.MethodPost, "/api/v1/transfer/import", body, true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, tt := range []struct {
		name string
		err  error
		want int
	}{
		{"healthy", nil, http.StatusOK},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable},
	} {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHealthController(fakePinger{err: tt.err}).Health)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
