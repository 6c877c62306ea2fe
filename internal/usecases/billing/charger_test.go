package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/profit-engine/infrastructure/integrator/payments/mocks"
	"github.com/vfg2006/profit-engine/infrastructure/integrator/payments/paymentsclient"
	"github.com/vfg2006/profit-engine/infrastructure/memory"
	"github.com/vfg2006/profit-engine/internal/domain"
	"go.uber.org/mock/gomock"
)

func scheduleRecord(t *testing.T, store *memory.Store, units int64) *domain.OverageRecord {
	t.Helper()
	record, err := store.Schedule(context.Background(), nil, &domain.OverageRecord{
		ID:            "ovg-1",
		MerchantID:    "merchant-1",
		Year:          2024,
		Month:         6,
		UnitsRequired: units,
		BlockSize:     100,
		BlockPrice:    decimal.NewFromInt(25),
		Currency:      "USD",
	})
	require.NoError(t, err)
	return record
}

func TestCharger_ScheduleOverageCharge(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func(store *memory.Store, client *mocks.MockClient)
		wantErr  error
		validate func(t *testing.T, store *memory.Store)
	}{
		{
			name: "Cobra os blocos pendentes e marca como cobrado",
			setup: func(store *memory.Store, client *mocks.MockClient) {
				scheduleRecord(t, store, 2)
				client.EXPECT().
					Charge(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req paymentsclient.ChargeRequest) (*paymentsclient.ChargeResponse, error) {
						assert.Equal(t, "overage-ovg-1-2", req.IdempotencyKey)
						assert.Equal(t, int64(2), req.Quantity)
						assert.True(t, req.Amount.Equal(decimal.NewFromInt(50)))
						return &paymentsclient.ChargeResponse{ID: "ch_1", Status: "succeeded"}, nil
					})
			},
			validate: func(t *testing.T, store *memory.Store) {
				record, _ := store.GetByID(ctx, "ovg-1")
				assert.Equal(t, domain.OverageStatusBilled, record.Status)
				assert.Equal(t, int64(2), record.UnitsBilled)
				assert.NotNil(t, record.BilledAt)
			},
		},
		{
			name: "Nada pendente não chama o billing",
			setup: func(store *memory.Store, client *mocks.MockClient) {
				scheduleRecord(t, store, 1)
				require.NoError(t, store.MarkBilled(ctx, "ovg-1", 1, fixedNow))
			},
			validate: func(t *testing.T, store *memory.Store) {
				pending, _ := store.ListPending(ctx)
				assert.Empty(t, pending)
			},
		},
		{
			name: "Falha no billing mantém o excedente pendente",
			setup: func(store *memory.Store, client *mocks.MockClient) {
				scheduleRecord(t, store, 1)
				client.EXPECT().
					Charge(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("timeout"))
			},
			wantErr: ErrChargeFailed,
			validate: func(t *testing.T, store *memory.Store) {
				record, _ := store.GetByID(ctx, "ovg-1")
				assert.Equal(t, domain.OverageStatusPending, record.Status)
			},
		},
		{
			name:    "Excedente inexistente",
			setup:   func(store *memory.Store, client *mocks.MockClient) {},
			wantErr: ErrOverageNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := memory.NewStore()
			client := mocks.NewMockClient(ctrl)
			tt.setup(store, client)

			charger := NewCharger(store, client)
			err := charger.ScheduleOverageCharge(ctx, "ovg-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if tt.validate != nil {
				tt.validate(t, store)
			}
		})
	}
}

func TestCharger_ChargePending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	store := memory.NewStore()
	scheduleRecord(t, store, 3)

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(&paymentsclient.ChargeResponse{ID: "ch_1"}, nil).Times(1)

	charged, err := NewCharger(store, client).ChargePending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, charged)

	charged, err = NewCharger(store, client).ChargePending(ctx)
	require.NoError(t, err)
	assert.Zero(t, charged)
}
