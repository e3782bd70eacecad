package domain_test

import (
	"testing"

	"github.com/expenza/expense_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func stringPtr(s string) *string {
	return &s
}

func TestApprovalRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rule    domain.ApprovalRule
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid percentage rule",
			rule: domain.ApprovalRule{
				RuleType:            domain.RulePercentage,
				PercentageThreshold: decimalPtr(decimal.NewFromInt(60)),
			},
			wantErr: false,
		},
		{
			name:    "percentage rule without threshold",
			rule:    domain.ApprovalRule{RuleType: domain.RulePercentage},
			wantErr: true,
			errMsg:  "percentage threshold is required",
		},
		{
			name: "valid specific rule",
			rule: domain.ApprovalRule{
				RuleType:           domain.RuleSpecific,
				SpecificApproverID: stringPtr("cfo-1"),
			},
			wantErr: false,
		},
		{
			name:    "specific rule without approver",
			rule:    domain.ApprovalRule{RuleType: domain.RuleSpecific},
			wantErr: true,
			errMsg:  "specific approver is required",
		},
		{
			name: "hybrid rule missing approver",
			rule: domain.ApprovalRule{
				RuleType:            domain.RuleHybrid,
				PercentageThreshold: decimalPtr(decimal.NewFromInt(50)),
			},
			wantErr: true,
			errMsg:  "specific approver is required",
		},
		{
			name:    "unknown rule type",
			rule:    domain.ApprovalRule{RuleType: "MAJORITY"},
			wantErr: true,
			errMsg:  "unknown rule type",
		},
		{
			name: "threshold above 100",
			rule: domain.ApprovalRule{
				RuleType:            domain.RulePercentage,
				PercentageThreshold: decimalPtr(decimal.NewFromInt(101)),
			},
			wantErr: true,
			errMsg:  "percentage threshold must be in (0, 100]",
		},
		{
			name: "zero threshold",
			rule: domain.ApprovalRule{
				RuleType:            domain.RulePercentage,
				PercentageThreshold: decimalPtr(decimal.Zero),
			},
			wantErr: true,
			errMsg:  "percentage threshold must be in (0, 100]",
		},
		{
			name: "min amount above max amount",
			rule: domain.ApprovalRule{
				RuleType:            domain.RulePercentage,
				PercentageThreshold: decimalPtr(decimal.NewFromInt(50)),
				MinAmount:           decimalPtr(decimal.NewFromInt(500)),
				MaxAmount:           decimalPtr(decimal.NewFromInt(100)),
			},
			wantErr: true,
			errMsg:  "minAmount must not exceed maxAmount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApprovalRule_Normalize(t *testing.T) {
	t.Run("percentage rule drops specific approver", func(t *testing.T) {
		rule := domain.ApprovalRule{
			RuleType:            domain.RulePercentage,
			PercentageThreshold: decimalPtr(decimal.NewFromInt(50)),
			SpecificApproverID:  stringPtr("cfo-1"),
		}
		rule.Normalize()
		assert.Nil(t, rule.SpecificApproverID)
		assert.NotNil(t, rule.PercentageThreshold)
	})

	t.Run("specific rule drops threshold", func(t *testing.T) {
		rule := domain.ApprovalRule{
			RuleType:            domain.RuleSpecific,
			PercentageThreshold: decimalPtr(decimal.NewFromInt(50)),
			SpecificApproverID:  stringPtr("cfo-1"),
		}
		rule.Normalize()
		assert.Nil(t, rule.PercentageThreshold)
		assert.NotNil(t, rule.SpecificApproverID)
	})

	t.Run("hybrid rule keeps both", func(t *testing.T) {
		rule := domain.ApprovalRule{
			RuleType:            domain.RuleHybrid,
			PercentageThreshold: decimalPtr(decimal.NewFromInt(50)),
			SpecificApproverID:  stringPtr("cfo-1"),
		}
		rule.Normalize()
		assert.NotNil(t, rule.PercentageThreshold)
		assert.NotNil(t, rule.SpecificApproverID)
	})
}

func TestApprovalRule_Matches(t *testing.T) {
	tests := []struct {
		name   string
		min    *decimal.Decimal
		max    *decimal.Decimal
		amount decimal.Decimal
		want   bool
	}{
		{name: "unbounded rule matches everything", amount: decimal.NewFromInt(1000000), want: true},
		{name: "amount inside range", min: decimalPtr(decimal.NewFromInt(100)), max: decimalPtr(decimal.NewFromInt(500)), amount: decimal.NewFromInt(250), want: true},
		{name: "amount equal to min bound", min: decimalPtr(decimal.NewFromInt(100)), amount: decimal.NewFromInt(100), want: true},
		{name: "amount equal to max bound", max: decimalPtr(decimal.NewFromInt(500)), amount: decimal.NewFromInt(500), want: true},
		{name: "amount below min", min: decimalPtr(decimal.NewFromInt(100)), amount: decimal.NewFromInt(99), want: false},
		{name: "amount above max", max: decimalPtr(decimal.NewFromInt(500)), amount: decimal.NewFromFloat(500.01), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := domain.ApprovalRule{MinAmount: tt.min, MaxAmount: tt.max}
			assert.Equal(t, tt.want, rule.Matches(tt.amount))
		})
	}
}

func TestApprovalRule_Threshold(t *testing.T) {
	withThreshold := domain.ApprovalRule{PercentageThreshold: decimalPtr(decimal.NewFromInt(75))}
	assert.True(t, withThreshold.Threshold().Equal(decimal.NewFromInt(75)))

	withoutThreshold := domain.ApprovalRule{}
	assert.True(t, withoutThreshold.Threshold().Equal(domain.DefaultPercentageThreshold))
}
