package rates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
	"github.com/MrJamesThe3rd/tradepack/internal/rates"
)

func TestService_Effective(t *testing.T) {
	templateID := uuid.New()

	type testCase struct {
		name       string
		templateID *uuid.UUID
		setupMock  func(m *rates.MockRepository)
		wantHourly int64
		wantCall   *decimal.Decimal
		wantErr    bool
	}

	tests := []testCase{
		{
			name:       "TemplateLayer",
			templateID: &templateID,
			setupMock: func(m *rates.MockRepository) {
				m.EXPECT().GetTemplate(gomock.Any(), templateID).Return(&rates.Template{
					ID:    templateID,
					Rates: rates.Rates{HourlyRate: dec(60), CalloutFee: dec(25)},
				}, nil)
			},
			wantHourly: 80,
			wantCall:   dec(25),
		},
		{
			name:       "NoTemplateLinked",
			wantHourly: 80,
		},
		{
			name:       "DeletedTemplateSkipped",
			templateID: &templateID,
			setupMock: func(m *rates.MockRepository) {
				m.EXPECT().GetTemplate(gomock.Any(), templateID).Return(nil, rates.ErrTemplateNotFound)
			},
			wantHourly: 80,
		},
		{
			name:       "RepoError",
			templateID: &templateID,
			setupMock: func(m *rates.MockRepository) {
				m.EXPECT().GetTemplate(gomock.Any(), templateID).Return(nil, errors.New("db error"))
			},
			wantErr: true,
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

			svc := rates.NewService(repo)
			got, err := svc.Effective(context.Background(),
				rates.Rates{HourlyRate: dec(80)}, tt.templateID, rates.Rates{HourlyRate: dec(50)})

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.HourlyRate.Equal(decimal.NewFromInt(tt.wantHourly)))

			if tt.wantCall == nil {
				assert.Nil(t, got.CalloutFee)
				return
			}

			require.NotNil(t, got.CalloutFee)
			assert.True(t, got.CalloutFee.Equal(*tt.wantCall))
		})
	}
}

func TestService_CreateTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := rates.NewMockRepository(ctrl)
	svc := rates.NewService(repo)
	owner := uuid.New()

	_, err := svc.CreateTemplate(context.Background(), rates.CreateParams{OwnerID: owner, Name: " "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.CreateTemplate(context.Background(), rates.CreateParams{OwnerID: owner, Name: "Standard"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	repo.EXPECT().
		CreateTemplate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tmpl *rates.Template) error {
			tmpl.ID = uuid.New()
			return nil
		})

	got, err := svc.CreateTemplate(context.Background(), rates.CreateParams{
		OwnerID: owner,
		Name:    " Standard ",
		Rates:   rates.Rates{HourlyRate: dec(90)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Standard", got.Name)
	assert.NotEqual(t, uuid.Nil, got.ID)
}
