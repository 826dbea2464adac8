package http

import (
	"net/http"
	"strconv"
	"time"

	"clubhouse/pkg/config"
	apperrors "clubhouse/pkg/errors"
	"clubhouse/pkg/model"
)

// MemberIDHeader carries the authenticated caller's member id, injected by
// the surrounding service layer after authentication.
const MemberIDHeader = "X-Member-ID"

func ExtractMemberID(r *http.Request) (string, error) {
	memberID := r.Header.Get(MemberIDHeader)
	if memberID == "" {
		return "", apperrors.InvalidInput("missing " + MemberIDHeader + " header")
	}
	return memberID, nil
}

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractPeriod parses the start_time/end_time query parameters (RFC 3339)
// into a validated Period.
func ExtractPeriod(r *http.Request) (model.Period, error) {
	query := r.URL.Query()

	start, err := time.Parse(time.RFC3339, query.Get("start_time"))
	if err != nil {
		return model.Period{}, apperrors.InvalidInput("invalid start_time parameter: " + query.Get("start_time"))
	}
	end, err := time.Parse(time.RFC3339, query.Get("end_time"))
	if err != nil {
		return model.Period{}, apperrors.InvalidInput("invalid end_time parameter: " + query.Get("end_time"))
	}

	period, err := model.NewPeriod(start, end)
	if err != nil {
		return model.Period{}, apperrors.PeriodInvalid(err.Error())
	}
	return period, nil
}
