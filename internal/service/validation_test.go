package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/brandon3sican/to-system/internal/dto"
)

func TestValidateStruct_Messages(t *testing.T) {
	req := &dto.CreateUserRequest{
		Username:             "",
		Password:             "short",
		PasswordConfirmation: "different",
	}
	err := validateStruct(req)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := map[string]string{
		"username":              "The username field is required.",
		"password":              "The password must be at least 8 characters.",
		"password_confirmation": "The password confirmation does not match.",
		"employee_id":           "The employee field is required.",
		"role_id":               "The role field is required.",
	}
	for field, msg := range want {
		if got := verr.Fields[field]; got != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, got)
		}
	}
}

func TestValidateStruct_SalaryAndGender(t *testing.T) {
	tests := []struct {
		name    string
		salary  string
		gender  string
		bad     string
		wantErr bool
	}{
		{"whole amount", "25000", "Male", "", false},
		{"two decimals", "25000.75", "Female", "", false},
		{"zero", "0", "Other", "", false},
		{"three decimals", "100.123", "Male", "salary", true},
		{"negative", "-5", "Male", "salary", true},
		{"unknown gender", "100", "X", "gender", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &dto.EmployeeInput{
				FirstName: "Ana", LastName: "Cruz", Gender: tt.gender, Salary: tt.salary,
				PositionID: uuid.NewString(), DivSecUnitID: uuid.NewString(), EmploymentStatusID: uuid.NewString(),
			}
			err := validateStruct(in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if _, ok := verr.Fields[tt.bad]; !ok {
					t.Errorf("expected error on %s, got %v", tt.bad, verr.Fields)
				}
			}
		})
	}
}

func TestValidateStruct_Except(t *testing.T) {
	req := &dto.RegisterRequest{
		RoleID: uuid.NewString(), Username: "admin", Password: "password123", PasswordConfirmation: "password123",
	}
	if err := validateStruct(req, "Profile"); err != nil {
		t.Fatalf("profile should be skipped: %v", err)
	}
	if err := validateStruct(req); err == nil {
		t.Fatal("empty profile should fail full validation")
	}
}

func TestNewFieldError_Unwrap(t *testing.T) {
	err := newFieldError("name", ErrNameTaken)
	if !errors.Is(err, ErrNameTaken) {
		t.Error("field error should unwrap to its sentinel")
	}
	if err.Fields["name"] != ErrNameTaken.Error() {
		t.Errorf("unexpected message %q", err.Fields["name"])
	}
}

func TestFieldLabel(t *testing.T) {
	if got := fieldLabel("div_sec_unit_id"); got != "div sec unit" {
		t.Errorf("unexpected label %q", got)
	}
	if got := fieldLabel("first_name"); got != "first name" {
		t.Errorf("unexpected label %q", got)
	}
}

func TestValidateStruct_ReferenceIDsMustBeUUIDs(t *testing.T) {
	req := &dto.CreateUserRequest{
		Username: "cara", Password: "password123", PasswordConfirmation: "password123",
		EmployeeID: "abc", RoleID: uuid.NewString(),
	}
	err := validateStruct(req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Fields["employee_id"] != ErrInvalidReference.Error() {
		t.Errorf("expected invalid reference on employee_id, got %v", verr.Fields)
	}
	if _, ok := verr.Fields["role_id"]; ok {
		t.Error("well-formed role_id must not be reported")
	}

	order := &dto.CreateTravelOrderRequest{
		OfficialStationID: uuid.NewString(), Destination: "Manila", Purpose: "Seminar",
		DepartureDate: "2026-10-20", ArrivalDate: "2026-10-20", ReturnDate: "2026-10-22",
	}
	if err := validateStruct(order); err != nil {
		t.Fatalf("blank employee_id is allowed: %v", err)
	}
	order.EmployeeID = "1 OR 1=1"
	if err := validateStruct(order); err == nil {
		t.Fatal("malformed employee_id should fail")
	}
}

func TestValidateStruct_UpdateUserNameLength(t *testing.T) {
	name := strings.Repeat("a", 100)
	req := &dto.UpdateUserRequest{Username: "maria", RoleID: uuid.NewString(), FirstName: name, LastName: name}
	if err := validateStruct(req); err != nil {
		t.Fatalf("100-character names fit the employee columns: %v", err)
	}
	req.LastName = name + "a"
	err := validateStruct(req)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["last_name"] == "" {
		t.Fatalf("expected last_name error, got %v", err)
	}
}
