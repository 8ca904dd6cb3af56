package db

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jsphweid/chordstave/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

const (
	DefaultTable    = "chordstave-scores"
	defaultEndpoint = "http://localhost:8000"
	defaultRegion   = "localhost"
)

type Dynamo struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

// NewDynamo connects to DynamoDB. Empty arguments fall back to a local
// DynamoDB on port 8000 and the default table.
func NewDynamo(endpoint, region, table string) (*Dynamo, error) {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if region == "" {
		region = defaultRegion
	}
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create a new DynamoDB session: %w", err)
	}
	return NewDynamoWithClient(dynamodb.New(sess), table), nil
}

func NewDynamoWithClient(client dynamodbiface.DynamoDBAPI, table string) *Dynamo {
	if table == "" {
		table = DefaultTable
	}
	return &Dynamo{client: client, table: table}
}

func (d *Dynamo) Save(ctx context.Context, score model.StoredScore) error {
	item := map[string]*dynamodb.AttributeValue{
		"PK":        {S: aws.String(score.Id)},
		"Key":       {S: aws.String(score.Key)},
		"Time":      {S: aws.String(score.Time)},
		"Mode":      {S: aws.String(score.Mode)},
		"NumChords": {N: aws.String(strconv.Itoa(score.NumChords))},
		"SVG":       {S: aws.String(score.SVG)},
		"CreatedAt": {S: aws.String(score.CreatedAt.UTC().Format(time.RFC3339Nano))},
	}
	if len(score.Warnings) > 0 {
		var warnings []*dynamodb.AttributeValue
		for _, w := range score.Warnings {
			warnings = append(warnings, &dynamodb.AttributeValue{S: aws.String(w)})
		}
		item["Warnings"] = &dynamodb.AttributeValue{L: warnings}
	}

	_, err := d.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("error from DynamoDB: %w", err)
	}
	return nil
}

func (d *Dynamo) Load(ctx context.Context, id string) (model.StoredScore, error) {
	var s model.StoredScore
	out, err := d.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
	})
	if err != nil {
		return s, fmt.Errorf("error from DynamoDB: %w", err)
	}
	if len(out.Item) == 0 {
		return s, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	v := out.Item
	s.Id = aws.StringValue(v["PK"].S)
	s.Key = stringAttr(v, "Key")
	s.Time = stringAttr(v, "Time")
	s.Mode = stringAttr(v, "Mode")
	s.SVG = stringAttr(v, "SVG")
	if v["NumChords"] != nil && v["NumChords"].N != nil {
		n, _ := strconv.Atoi(*v["NumChords"].N)
		s.NumChords = n
	}
	if w := v["Warnings"]; w != nil {
		for _, item := range w.L {
			s.Warnings = append(s.Warnings, aws.StringValue(item.S))
		}
	}
	if created := stringAttr(v, "CreatedAt"); created != "" {
		s.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return s, fmt.Errorf("score %s has corrupt timestamp: %w", id, err)
		}
	}
	return s, nil
}

func (d *Dynamo) Close() error {
	return nil
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if v, ok := item[name]; ok && v != nil {
		return aws.StringValue(v.S)
	}
	return ""
}
