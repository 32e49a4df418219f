package rates_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tradepack/internal/http/auth"
	httprates "github.com/MrJamesThe3rd/tradepack/internal/http/rates"
	"github.com/MrJamesThe3rd/tradepack/internal/importer"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

func multipartBody(t *testing.T, fields map[string]string, file string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if file != "" {
		fw, err := mw.CreateFormFile("file", "rates.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte(file))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestHandler_Import(t *testing.T) {
	ownerID := uuid.New()

	type testCase struct {
		name       string
		fields     map[string]string
		file       string
		setupMock  func(repo *rates.MockRepository)
		wantStatus int
		wantCode   string
	}

	tests := []testCase{
		{
			name:   "Created",
			fields: map[string]string{"name": "Standard 2026"},
			file:   "Rate;Amount\nHourly rate;95,00\nCall-out fee;80\n",
			setupMock: func(repo *rates.MockRepository) {
				repo.EXPECT().CreateTemplate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tmpl *rates.Template) error {
						assert.Equal(t, ownerID, tmpl.OwnerID)
						assert.Equal(t, "Standard 2026", tmpl.Name)
						assert.Equal(t, "95", tmpl.Rates.HourlyRate.String())

						tmpl.ID = uuid.New()

						return nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "UnknownRate",
			fields:     map[string]string{"name": "Bad"},
			file:       "Rate;Amount\nTravel;30\n",
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION",
		},
		{
			name:       "MissingName",
			file:       "Rate;Amount\nHourly rate;95\n",
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION",
		},
		{
			name:       "MissingFile",
			fields:     map[string]string{"name": "Empty"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := rates.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			r := chi.NewRouter()
			r.Route("/rate-templates", httprates.NewHandler(rates.NewService(repo), importer.NewService()).Routes)

			body, contentType := multipartBody(t, tt.fields, tt.file)

			req := httptest.NewRequest(http.MethodPost, "/rate-templates/import", body)
			req.Header.Set("Content-Type", contentType)
			req = req.WithContext(auth.WithActor(req.Context(), ownerID))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, got["code"])
				return
			}

			assert.Equal(t, "Standard 2026", got["name"])
		})
	}
}
