package storage

import (
	"context"
	"fmt"

	"github.com/aanand-mishra/student-records-api/internal/types"
)

// SampleStudents are inserted by SeedSampleData into an empty store.
var SampleStudents = []types.StudentInput{
	{Name: "John Doe", RollNumber: "R1001", Email: "john.doe@example.com", Mobile: "1234567890"},
	{Name: "Jane Smith", RollNumber: "R1002", Email: "jane.smith@example.com", Mobile: "9876543210"},
	{Name: "Alex Johnson", RollNumber: "R1003", Email: "alex.johnson@example.com", Mobile: "5554443333"},
}

// SeedSampleData inserts SampleStudents if the store is empty and reports
// how many records were added. Calling it again is a no-op.
func SeedSampleData(ctx context.Context, s Storage) (int, error) {
	added := 0
	err := s.Update(ctx, func(tx Writer) error {
		existing, err := tx.GetStudents()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		for _, in := range SampleStudents {
			if _, err := tx.CreateStudent(in); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("storage.SeedSampleData: %w", err)
	}
	return added, nil
}
