package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/data/dto"
	"github.com/emzola/bookmarket/internal/validator"
)

type isbnLookup interface {
	LookupISBN(ctx context.Context, isbn string) (*data.BookMetadata, error)
}

var yearRX = regexp.MustCompile(`\b(\d{4})\b`)

// LookupISBN service fetches book metadata from Open Library to prefill a listing.
func (s *service) LookupISBN(ctx context.Context, isbn string) (*data.BookMetadata, error) {
	isbn = data.NormalizeISBN(isbn)
	v := validator.New()
	if data.ValidateISBN(v, isbn); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	baseURL := strings.TrimSuffix(s.config.OpenLibrary.BaseURL, "/")
	body, err := s.fetchRemoteResource(ctx, baseURL+"/isbn/"+isbn+".json")
	if err != nil {
		return nil, err
	}
	var openLibAPI dto.OpenLibAPIResponseBody
	if err := json.Unmarshal(body, &openLibAPI); err != nil {
		return nil, ErrBadRequest
	}
	title := openLibAPI.Title
	if openLibAPI.Subtitle != "" {
		title += ": " + openLibAPI.Subtitle
	}
	metadata := &data.BookMetadata{
		ISBN:       isbn,
		Title:      title,
		Publishers: openLibAPI.Publishers,
		Year:       publishYear(openLibAPI.Date),
		PageCount:  openLibAPI.PageCount,
	}
	// Author names live behind separate resources; a failed lookup only drops that name.
	for _, author := range openLibAPI.Authors {
		body, err := s.fetchRemoteResource(ctx, baseURL+author.Key+".json")
		if err != nil {
			s.logger.PrintError(err, map[string]string{"author": author.Key})
			continue
		}
		var a dto.OpenLibAuthorResponseBody
		if err := json.Unmarshal(body, &a); err == nil && a.Name != "" {
			metadata.Authors = append(metadata.Authors, a.Name)
		}
	}
	return metadata, nil
}

// publishYear extracts the last four digit year from a free-form publish date
// such as "March 5, 2002".
func publishYear(date string) int {
	matches := yearRX.FindAllString(date, -1)
	if len(matches) == 0 {
		return 0
	}
	year, _ := strconv.Atoi(matches[len(matches)-1])
	return year
}
