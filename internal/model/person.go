package model

import "time"

// Student 学生表，对应 students（机构库，只读）
type Student struct {
	ID             string    `gorm:"type:varchar(15);primaryKey" json:"id"`
	FirstName      string    `gorm:"type:varchar(30);not null"   json:"first_name"`
	LastName       string    `gorm:"type:varchar(30);not null"   json:"last_name"`
	Email          string    `gorm:"type:varchar(50);not null"   json:"email"`
	BirthDate      time.Time `gorm:"type:date;not null"          json:"birth_date"`
	BirthPlaceCode int       `gorm:"not null"                    json:"birth_place_code"`
	CampusCode     int       `gorm:"not null"                    json:"campus_code"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// FullName 姓名
func (s Student) FullName() string { return s.FirstName + " " + s.LastName }

// Employee 员工表，对应 employees（机构库，只读）
type Employee struct {
	ID             string `gorm:"type:varchar(15);primaryKey" json:"id"`
	FirstName      string `gorm:"type:varchar(30);not null"   json:"first_name"`
	LastName       string `gorm:"type:varchar(30);not null"   json:"last_name"`
	Email          string `gorm:"type:varchar(50);not null"   json:"email"`
	ContractType   string `gorm:"type:varchar(30);not null"   json:"contract_type"`
	EmployeeType   string `gorm:"type:varchar(30);not null"   json:"employee_type"`
	FacultyCode    int    `gorm:"not null"                    json:"faculty_code"`
	CampusCode     int    `gorm:"not null"                    json:"campus_code"`
	BirthPlaceCode int    `gorm:"not null"                    json:"birth_place_code"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// FullName 姓名
func (e Employee) FullName() string { return e.FirstName + " " + e.LastName }
