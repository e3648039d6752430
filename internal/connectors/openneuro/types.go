package openneuro

import (
	"strings"

	"github.com/custodia-labs/scidata/internal/core/domain"
)

// datasetsQuery requests one page of datasets with everything Normalize reads.
const datasetsQuery = `query Datasets($first: Int!, $after: String) {
  datasets(first: $first, after: $after) {
    edges {
      node {
        id
        name
        created
        public
        publishDate
        analytics { views downloads }
        draft {
          modified
          readme
          description {
            Name BIDSVersion License Authors SeniorAuthor
            DatasetDOI DatasetType Acknowledgements
            HowToAcknowledge Funding ReferencesAndLinks EthicsApprovals
          }
          summary {
            modalities primaryModality secondaryModalities
            sessions subjects tasks size totalFiles dataProcessed
          }
        }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

// Node is one raw OpenNeuro dataset as returned by the GraphQL API.
type Node struct {
	ID          string     `json:"id"`
	Name        *string    `json:"name"`
	Created     *string    `json:"created"`
	Public      *bool      `json:"public"`
	PublishDate *string    `json:"publishDate"`
	Analytics   *Analytics `json:"analytics"`
	Draft       *Draft     `json:"draft"`
}

// RawSource implements domain.RawRecord.
func (Node) RawSource() domain.SourceName {
	return domain.SourceOpenNeuro
}

// Analytics holds usage counters.
type Analytics struct {
	Views     *int `json:"views"`
	Downloads *int `json:"downloads"`
}

// Draft is the working version of a dataset.
type Draft struct {
	Modified    *string      `json:"modified"`
	Readme      *string      `json:"readme"`
	Description *Description `json:"description"`
	Summary     *Summary     `json:"summary"`
}

// Description mirrors BIDS dataset_description.json. Free-form fields are
// kept untyped since datasets fill them inconsistently.
type Description struct {
	Name               *string `json:"Name"`
	BIDSVersion        *string `json:"BIDSVersion"`
	License            *string `json:"License"`
	Authors            any     `json:"Authors"`
	SeniorAuthor       any     `json:"SeniorAuthor"`
	DatasetDOI         *string `json:"DatasetDOI"`
	DatasetType        *string `json:"DatasetType"`
	Acknowledgements   any     `json:"Acknowledgements"`
	HowToAcknowledge   any     `json:"HowToAcknowledge"`
	Funding            any     `json:"Funding"`
	ReferencesAndLinks any     `json:"ReferencesAndLinks"`
	EthicsApprovals    any     `json:"EthicsApprovals"`
}

// Summary is the server-computed dataset summary.
type Summary struct {
	Modalities          []string `json:"modalities"`
	PrimaryModality     *string  `json:"primaryModality"`
	SecondaryModalities []string `json:"secondaryModalities"`
	Sessions            []string `json:"sessions"`
	Subjects            []string `json:"subjects"`
	Tasks               []string `json:"tasks"`
	Size                *float64 `json:"size"`
	TotalFiles          *int     `json:"totalFiles"`
	DataProcessed       *bool    `json:"dataProcessed"`
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data *struct {
		Datasets *struct {
			Edges []struct {
				Node *Node `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage bool    `json:"hasNextPage"`
				EndCursor   *string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"datasets"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// GraphQLError reports errors returned in a successful HTTP response.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}
