package datasets

import (
	"os"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/apache/arrow/go/v13/parquet"
	"github.com/apache/arrow/go/v13/parquet/pqarrow"

	"github.com/nihongo-dojo/dojo-go/pkg/errors"
	"github.com/nihongo-dojo/dojo-go/pkg/rewards"
	"github.com/nihongo-dojo/dojo-go/pkg/tasks"
)

// ExportParquet writes the dataset as a parquet file with the columns the
// training pipelines read: task_id, type, difficulty, question, answer, and
// the fully tagged solution.
func ExportParquet(d *GRPODataset, path string, tags rewards.Tags) error {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "task_id", Type: arrow.BinaryTypes.String},
		{Name: "type", Type: arrow.BinaryTypes.String},
		{Name: "difficulty", Type: arrow.BinaryTypes.String},
		{Name: "question", Type: arrow.BinaryTypes.String},
		{Name: "answer", Type: arrow.BinaryTypes.String},
		{Name: "solution", Type: arrow.BinaryTypes.String},
	}, nil)

	pool := memory.DefaultAllocator
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	for _, t := range d.Tasks {
		builder.Field(0).(*array.StringBuilder).Append(t.ID)
		builder.Field(1).(*array.StringBuilder).Append(string(t.Type))
		builder.Field(2).(*array.StringBuilder).Append(string(t.Difficulty))
		builder.Field(3).(*array.StringBuilder).Append(tasks.FormatPrompt(t))
		builder.Field(4).(*array.StringBuilder).Append(t.Answer)
		builder.Field(5).(*array.StringBuilder).Append(tasks.FormatSolution(t, tags))
	}

	record := builder.NewRecord()
	defer record.Release()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.IOFailed, "create parquet file")
	}
	defer f.Close()

	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	chunk := table.NumRows()
	if chunk == 0 {
		chunk = 1
	}
	props := parquet.NewWriterProperties(parquet.WithAllocator(pool))
	arrowProps := pqarrow.DefaultWriterProps()
	if err := pqarrow.WriteTable(table, f, chunk, props, arrowProps); err != nil {
		return errors.Wrap(err, errors.SerializationFailed, "write parquet table")
	}
	return nil
}
