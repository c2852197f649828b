package assert

import "testing"

func TestTrue(t *testing.T) {
	tests := []struct {
		stmt bool
		msg  string
		args []interface{}
	}{
		{true, "This should not panic", nil},
		{false, "This should panic", nil},
	}

	for _, tt := range tests {
		func() {
			defer func() {
				if r := recover(); (r != nil) != !tt.stmt {
					t.Errorf("True(%v, %q, %v) panicked unexpectedly", tt.stmt, tt.msg, tt.args)
				}
			}()

			True(tt.stmt, tt.msg, tt.args...)
		}()
	}
}

func TestUnique(t *testing.T) {
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Unique([1,2,3]) panicked unexpectedly: %v", r)
			}
		}()
		Unique([]int{1, 2, 3}, "should not panic")
	}()

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Unique([1,2,1]) should have panicked")
			}
		}()
		Unique([]int{1, 2, 1}, "should panic")
	}()
}
