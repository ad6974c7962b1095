package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidReportCategory(t *testing.T) {
	for _, c := range []string{"water", "electricity", "roads", "waste", "safety", "other"} {
		assert.True(t, ValidReportCategory(c), "category %s should be valid", c)
	}

	assert.False(t, ValidReportCategory(""))
	assert.False(t, ValidReportCategory("potholes"))
	assert.False(t, ValidReportCategory("Water"))
}

func TestReportStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to ReportStatus }{
		{ReportStatusSubmitted, ReportStatusTriaged},
		{ReportStatusSubmitted, ReportStatusRejected},
		{ReportStatusTriaged, ReportStatusInProgress},
		{ReportStatusTriaged, ReportStatusRejected},
		{ReportStatusInProgress, ReportStatusResolved},
		{ReportStatusInProgress, ReportStatusRejected},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to ReportStatus }{
		{ReportStatusSubmitted, ReportStatusInProgress}, // 不能越过分诊
		{ReportStatusSubmitted, ReportStatusResolved},
		{ReportStatusTriaged, ReportStatusResolved},
		{ReportStatusTriaged, ReportStatusSubmitted}, // 不允许回退
		{ReportStatusResolved, ReportStatusInProgress},
		{ReportStatusResolved, ReportStatusRejected}, // 终态不再流转
		{ReportStatusRejected, ReportStatusTriaged},
		{ReportStatusInProgress, ReportStatusInProgress},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestValidStaffRole(t *testing.T) {
	for _, r := range []string{"admin", "manager", "agent"} {
		assert.True(t, ValidStaffRole(r), "role %s should be valid", r)
	}
	assert.False(t, ValidStaffRole("supervisor"))
	assert.False(t, ValidStaffRole(""))
}
