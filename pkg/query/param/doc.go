// Package param defines the typed values that appear inside rendered queries.
//
// Port and TimeUnit are closed enumerations carrying a canonical literal.
// TimeWindow combines a positive magnitude with a TimeUnit and renders to the
// grammar's duration literal:
//
//	w, err := param.NewTimeWindow(2, param.Minutes)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(w) // 2m
//
// All values are immutable and safe to share between goroutines.
package param
