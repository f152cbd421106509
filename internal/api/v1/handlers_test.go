package apiv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRechargeRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRechargeRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req: CreateRechargeRequest{
				MSISDN:       "27821231232",
				ProductCode:  "AIRTIME",
				Denomination: 500,
				ProjectID:    1,
			},
			wantErr: false,
		},
		{
			name: "valid with client reference",
			req: CreateRechargeRequest{
				MSISDN:       "27821231232",
				ProductCode:  "AIRTIME",
				Denomination: 500,
				ProjectID:    1,
				Reference:    "20150513001",
			},
			wantErr: false,
		},
		{
			name: "missing msisdn",
			req: CreateRechargeRequest{
				ProductCode:  "AIRTIME",
				Denomination: 500,
				ProjectID:    1,
			},
			wantErr: true,
		},
		{
			name: "non-numeric msisdn",
			req: CreateRechargeRequest{
				MSISDN:       "2782123abc2",
				ProductCode:  "AIRTIME",
				Denomination: 500,
				ProjectID:    1,
			},
			wantErr: true,
		},
		{
			name: "msisdn too short",
			req: CreateRechargeRequest{
				MSISDN:       "2782",
				ProductCode:  "AIRTIME",
				Denomination: 500,
				ProjectID:    1,
			},
			wantErr: true,
		},
		{
			name: "zero denomination",
			req: CreateRechargeRequest{
				MSISDN:       "27821231232",
				ProductCode:  "AIRTIME",
				Denomination: 0,
				ProjectID:    1,
			},
			wantErr: true,
		},
		{
			name: "negative denomination",
			req: CreateRechargeRequest{
				MSISDN:       "27821231232",
				ProductCode:  "AIRTIME",
				Denomination: -100,
				ProjectID:    1,
			},
			wantErr: true,
		},
		{
			name: "non-numeric reference",
			req: CreateRechargeRequest{
				MSISDN:       "27821231232",
				ProductCode:  "AIRTIME",
				Denomination: 500,
				ProjectID:    1,
				Reference:    "ref-abc",
			},
			wantErr: true,
		},
		{
			name: "missing project",
			req: CreateRechargeRequest{
				MSISDN:       "27821231232",
				ProductCode:  "AIRTIME",
				Denomination: 500,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateRechargeRequest_ToModel(t *testing.T) {
	req := CreateRechargeRequest{
		MSISDN:       "27821231232",
		ProductCode:  "AIRTIME",
		Denomination: 500,
		ProjectID:    1,
		Reference:    "20150513001",
		Notification: "Your airtime has arrived.",
	}

	rec := req.ToModel()
	assert.Equal(t, "27821231232", rec.MSISDN)
	assert.Equal(t, "20150513001", rec.Reference)
	assert.Equal(t, "Your airtime has arrived.", rec.Notification)
	// Unsubmitted until the pipeline claims it.
	assert.Nil(t, rec.Status)
}

func TestCreateRechargeRequest_ToModelGeneratesReference(t *testing.T) {
	req := CreateRechargeRequest{
		MSISDN:       "27821231232",
		ProductCode:  "AIRTIME",
		Denomination: 500,
		ProjectID:    1,
	}

	rec := req.ToModel()
	require.NotEmpty(t, rec.Reference)

	// Hotsocket rejects non-numeric references, so generated ones must be
	// all digits.
	for _, r := range rec.Reference {
		assert.True(t, r >= '0' && r <= '9', "reference %q contains non-digit", rec.Reference)
	}
}
