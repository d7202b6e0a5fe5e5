package memory

import (
	"time"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/incident"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/org"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/ppe"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/training"
)

// Seed はデモ用のデータセットをストアへ投入します。期日などの相対的な
// 日付は now を基準に組み立てます。
func Seed(store *Store, now time.Time) {
	store.mu.Lock()
	defer store.mu.Unlock()

	today := truncate(now)
	seedDepartments(store)
	seedEmployees(store, today)
	seedTrainings(store, today)
	seedIncidents(store, today)
	seedLedger(store, today)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func seedDepartments(store *Store) {
	departments := []*org.Department{
		{
			Name: "Production",
			Positions: []*org.Position{
				{
					ID: "prod-asm", Name: "Assembly Line Worker",
					Description:      "Assembles parts or units, and positions, aligns, and fastens units to assemblies, subassemblies, or frames.",
					MedicalExamYears: 3, FireProtectionExamYears: 2, RiskLevel: org.RiskMedium,
					RisksAndMeasures: []org.RiskAndMeasure{
						{ID: "rm3", Risk: "Repetitive motion", Measure: "Job rotation"},
						{ID: "rm4", Risk: "Sharp objects", Measure: "Use of protective gloves"},
					},
				},
				{
					ID: "prod-paint", Name: "Paint Shop Operator",
					Description:      "Operates or tends machines to coat or paint any of a wide variety of products.",
					MedicalExamYears: 1, FireProtectionExamYears: 1, RiskLevel: org.RiskHigh,
					SpecialConditions: "Requires annual respiratory fit test.",
					RisksAndMeasures: []org.RiskAndMeasure{
						{ID: "rm5", Risk: "Inhalation of fumes", Measure: "Use of respirators and proper ventilation"},
						{ID: "rm6", Risk: "Skin contact with chemicals", Measure: "Use of chemical-resistant gloves and suits"},
					},
				},
				{
					ID: "prod-sup", Name: "Production Supervisor",
					Description:      "Supervises and coordinates the activities of production and operating workers.",
					MedicalExamYears: 2, FireProtectionExamYears: 1, RiskLevel: org.RiskMedium,
					SpecialConditions: "Must be forklift certified.",
					RisksAndMeasures: []org.RiskAndMeasure{
						{ID: "rm1", Risk: "High noise levels", Measure: "Use of ear protection"},
						{ID: "rm2", Risk: "Repetitive strain injury", Measure: "Regular breaks and ergonomic training"},
					},
				},
				{
					ID: "prod-weld", Name: "Welder",
					Description:      "Uses hand-welding or flame-cutting equipment to weld or join metal components.",
					MedicalExamYears: 1.5, FireProtectionExamYears: 1, RiskLevel: org.RiskHigh,
					SpecialConditions: "Requires vision test every 2 years.",
					RisksAndMeasures: []org.RiskAndMeasure{
						{ID: "rm7", Risk: "UV radiation exposure", Measure: "Use of welding helmets and protective clothing"},
						{ID: "rm8", Risk: "Inhalation of metal fumes", Measure: "Use of fume extractors"},
					},
				},
			},
		},
		{
			Name: "Quality Assurance",
			Positions: []*org.Position{
				{
					ID: "qa-man", Name: "QA Manager",
					Description:      "Oversees the quality assurance department and ensures that products meet standards.",
					MedicalExamYears: 5, FireProtectionExamYears: 1, RiskLevel: org.RiskLow,
					RisksAndMeasures: []org.RiskAndMeasure{
						{ID: "rm9", Risk: "Stress from deadlines", Measure: "Time management training"},
					},
					SubPositions: []*org.Position{
						{
							ID: "qa-eng", Name: "Quality Engineer",
							Description:      "Monitors and tests the quality of products and processes.",
							MedicalExamYears: 5, FireProtectionExamYears: 2, RiskLevel: org.RiskLow,
							RisksAndMeasures: []org.RiskAndMeasure{
								{ID: "rm10", Risk: "Eye strain from inspection", Measure: "Adequate lighting and regular breaks"},
							},
						},
						{
							ID: "qa-insp", Name: "Quality Control Inspector",
							Description:      "Inspects materials and products for defects and to ensure conformance with specifications.",
							MedicalExamYears: 4, FireProtectionExamYears: 2, RiskLevel: org.RiskLow,
							RisksAndMeasures: []org.RiskAndMeasure{
								{ID: "rm11", Risk: "Eye strain from visual inspection", Measure: "Use of magnifying equipment"},
							},
						},
					},
				},
			},
		},
		{
			Name: "Maintenance",
			Positions: []*org.Position{
				{
					ID: "maint-sup", Name: "Maintenance Supervisor",
					Description:      "Supervises maintenance staff.",
					MedicalExamYears: 3, FireProtectionExamYears: 1, RiskLevel: org.RiskMedium,
				},
				{
					ID: "maint-tech", Name: "Maintenance Technician",
					Description:      "Repairs and maintains machinery and mechanical equipment.",
					MedicalExamYears: 2, FireProtectionExamYears: 1, RiskLevel: org.RiskHigh,
					RisksAndMeasures: []org.RiskAndMeasure{
						{ID: "rm12", Risk: "Electrical shock", Measure: "Lockout/Tagout procedures"},
					},
				},
			},
		},
		{
			Name: "Safety",
			Positions: []*org.Position{
				{
					ID: "safe-man", Name: "EHS Manager",
					Description:      "Manages environmental, health, and safety programs.",
					MedicalExamYears: 5, FireProtectionExamYears: 1, RiskLevel: org.RiskLow,
				},
				{
					ID: "safe-coord", Name: "Safety Coordinator",
					Description:      "Coordinates safety programs.",
					MedicalExamYears: 5, FireProtectionExamYears: 1, RiskLevel: org.RiskLow,
				},
			},
		},
		{
			Name: "Engineering",
			Positions: []*org.Position{
				{
					ID: "eng-elec", Name: "Electrical Engineer",
					Description:      "Designs electrical systems.",
					MedicalExamYears: 5, FireProtectionExamYears: 3, RiskLevel: org.RiskLow,
				},
				{
					ID: "eng-mech", Name: "Mechanical Engineer",
					Description:      "Designs mechanical systems.",
					MedicalExamYears: 5, FireProtectionExamYears: 3, RiskLevel: org.RiskLow,
				},
				{
					ID: "eng-robot", Name: "Robotics Engineer",
					Description:      "Designs and develops robotic systems.",
					MedicalExamYears: 5, FireProtectionExamYears: 3, RiskLevel: org.RiskLow,
				},
			},
		},
		{
			Name: "Supply Chain",
			Positions: []*org.Position{
				{
					ID: "sc-log", Name: "Logistics Coordinator",
					Description:      "Coordinates logistics.",
					MedicalExamYears: 5, FireProtectionExamYears: 3, RiskLevel: org.RiskLow,
				},
				{
					ID: "sc-ware", Name: "Warehouse Associate",
					Description:      "Works in the warehouse.",
					MedicalExamYears: 4, FireProtectionExamYears: 2, RiskLevel: org.RiskMedium,
					RisksAndMeasures: []org.RiskAndMeasure{
						{ID: "rm13", Risk: "Falling objects", Measure: "Hard hat usage"},
					},
				},
			},
		},
		{
			Name: "Human Resources",
			Positions: []*org.Position{
				{
					ID: "hr-bp", Name: "HR Business Partner",
					Description:      "Provides HR partnership.",
					FireProtectionExamYears: 5, RiskLevel: org.RiskLow, SpecialConditions: "N/A",
				},
				{
					ID: "hr-gen", Name: "HR Generalist",
					Description:      "Handles general HR tasks.",
					FireProtectionExamYears: 5, RiskLevel: org.RiskLow, SpecialConditions: "N/A",
				},
				{
					ID: "hr-rec", Name: "Recruiter",
					Description:      "Recruits new employees.",
					FireProtectionExamYears: 5, RiskLevel: org.RiskLow, SpecialConditions: "N/A",
				},
			},
		},
	}

	for _, d := range departments {
		store.departments[departmentKey(d.Name)] = d
	}
}

func seedEmployees(store *Store, today time.Time) {
	employees := []*employee.Employee{
		{
			ID: "1", EmployeeID: "E1001", FirstName: "John", LastName: "Doe", Gender: employee.GenderMale,
			DateOfBirth: date(1985, time.May, 15), SocialSecurityNumber: "123-456-7890",
			Residence: "123 Main St", Municipality: "Anytown", Profession: "Mechanic",
			EmploymentDate: date(2015, time.March, 1),
			Department:     "Production", Position: "Assembly Line Worker",
			Email:          "john.doe@example.com",
			Certifications: []string{"Forklift Operation", "Hazardous Materials Handling"},
			Status:         employee.StatusActive,
		},
		{
			ID: "2", EmployeeID: "E1002", FirstName: "Jane", LastName: "Smith", Gender: employee.GenderFemale,
			DateOfBirth: date(1990, time.August, 22), SocialSecurityNumber: "234-567-8901",
			Residence: "456 Oak Ave", Municipality: "Otherville", Profession: "Engineer",
			EmploymentDate: date(2018, time.July, 15),
			Department:     "Quality Assurance", Position: "Quality Control Inspector",
			Email:          "jane.smith@example.com",
			Certifications: []string{"ISO 9001 Auditing", "Six Sigma Green Belt"},
			Status:         employee.StatusActive,
		},
		{
			ID: "3", EmployeeID: "E1003", FirstName: "Mike", LastName: "Johnson", Gender: employee.GenderMale,
			DateOfBirth: date(1982, time.November, 30), SocialSecurityNumber: "345-678-9012",
			Residence: "789 Pine Ln", Municipality: "Somewhere", Profession: "Electrician",
			EmploymentDate: date(2012, time.January, 10),
			Department:     "Maintenance", Position: "Maintenance Technician",
			Email:          "mike.johnson@example.com",
			Certifications: []string{"Electrical Safety", "Lockout/Tagout Procedures"},
			Status:         employee.StatusActive,
		},
		{
			ID: "4", EmployeeID: "E1004", FirstName: "Emily", LastName: "Davis", Gender: employee.GenderFemale,
			DateOfBirth: date(1988, time.February, 20), SocialSecurityNumber: "456-789-0123",
			Residence: "101 Maple Dr", Municipality: "Anytown", Profession: "Safety Inspector",
			EmploymentDate: date(2020, time.September, 1),
			Department:     "Safety", Position: "EHS Manager",
			Email:          "emily.davis@example.com",
			Certifications: []string{"OSHA 30-Hour", "Certified Safety Professional"},
			Status:         employee.StatusActive,
		},
		{
			ID: "5", EmployeeID: "E1005", FirstName: "Chris", LastName: "Brown", Gender: employee.GenderMale,
			DateOfBirth: date(1992, time.April, 12), SocialSecurityNumber: "567-890-1234",
			Residence: "212 Birch Rd", Municipality: "Otherville", Profession: "Robotics Specialist",
			EmploymentDate: date(2019, time.November, 20),
			Department:     "Engineering", Position: "Robotics Engineer",
			Email:          "chris.brown@example.com",
			Certifications: []string{"Robot Safety Standards", "Advanced PLC Programming"},
			Status:         employee.StatusOnLeave,
		},
		{
			ID: "6", EmployeeID: "E1006", FirstName: "Sarah", LastName: "Wilson", Gender: employee.GenderFemale,
			DateOfBirth: date(1995, time.September, 5), SocialSecurityNumber: "678-901-2345",
			Residence: "333 Cedar Ct", Municipality: "Somewhere", Profession: "Painter",
			EmploymentDate: date(2021, time.February, 18),
			Department:     "Production", Position: "Paint Shop Operator",
			Email:          "sarah.wilson@example.com",
			Certifications: []string{"Respirator Fit Testing", "Chemical Safety"},
			Status:         employee.StatusActive,
		},
		{
			ID: "7", EmployeeID: "E1007", FirstName: "David", LastName: "Lee", Gender: employee.GenderMale,
			DateOfBirth: date(1989, time.December, 10), SocialSecurityNumber: "789-012-3456",
			Residence: "444 Willow Way", Municipality: "Anytown", Profession: "Logistics Expert",
			EmploymentDate: date(2017, time.May, 25), TerminationDate: date(2023, time.October, 31),
			Department:     "Supply Chain", Position: "Logistics Coordinator",
			Email:          "david.lee@example.com",
			Certifications: []string{"Forklift Operation"},
			Status:         employee.StatusTerminated,
		},
		{
			ID: "8", EmployeeID: "E1008", FirstName: "Jessica", LastName: "Miller", Gender: employee.GenderFemale,
			DateOfBirth: date(1993, time.July, 18), SocialSecurityNumber: "890-123-4567",
			Residence: "555 Spruce St", Municipality: "Otherville", Profession: "HR Generalist",
			EmploymentDate: date(2022, time.August, 1),
			Department:     "Human Resources", Position: "HR Business Partner",
			Email:          "jessica.miller@example.com",
			Certifications: []string{},
			Status:         employee.StatusActive,
		},
	}

	for _, e := range employees {
		e.CreatedAt = today
		e.UpdatedAt = today
		store.employees[e.ID] = e
	}
}

func seedTrainings(store *Store, today time.Time) {
	completed := func(daysAgo, score int) (*time.Time, *int) {
		d := today.AddDate(0, 0, -daysAgo)
		return &d, &score
	}

	modules := []*training.Module{
		{ID: "t1", EmployeeID: "1", Name: "Safety Harness Training", DueDate: today.AddDate(0, 0, -10), Status: training.StatusOverdue},
		{ID: "t2", EmployeeID: "1", Name: "Ergonomics in Assembly", DueDate: today.AddDate(0, 0, 5), Status: training.StatusInProgress},
		{ID: "t3", EmployeeID: "1", Name: "Annual Fire Safety", DueDate: today.AddDate(0, 0, -30), Status: training.StatusCompleted},
		{ID: "t4", EmployeeID: "2", Name: "Advanced Product Testing", DueDate: today.AddDate(0, 0, 20), Status: training.StatusNotStarted},
		{ID: "t5", EmployeeID: "2", Name: "Data Integrity and Reporting", DueDate: today.AddDate(0, 0, -5), Status: training.StatusCompleted},
		{ID: "t6", EmployeeID: "3", Name: "High-Voltage Battery Safety", DueDate: today.AddDate(0, 0, -2), Status: training.StatusOverdue},
		{ID: "t7", EmployeeID: "3", Name: "Machine Guarding", DueDate: today.AddDate(0, 0, 30), Status: training.StatusInProgress},
		{ID: "t8", EmployeeID: "4", Name: "Incident Investigation Leadership", DueDate: today.AddDate(0, 0, -15), Status: training.StatusCompleted},
		{ID: "t9", EmployeeID: "5", Name: "Collaborative Robot Safety", DueDate: today.AddDate(0, 0, 10), Status: training.StatusNotStarted},
		{ID: "t10", EmployeeID: "6", Name: "VOC Emission Control", DueDate: today.AddDate(0, 0, -1), Status: training.StatusInProgress},
		{ID: "t11", EmployeeID: "6", Name: "Personal Protective Equipment (PPE)", DueDate: today.AddDate(0, 0, -45), Status: training.StatusCompleted},
	}

	modules[2].CompletionDate, modules[2].Score = completed(32, 95)
	modules[4].CompletionDate, modules[4].Score = completed(6, 100)
	modules[7].CompletionDate, modules[7].Score = completed(16, 98)
	modules[10].CompletionDate, modules[10].Score = completed(45, 90)

	for _, m := range modules {
		m.CreatedAt = today
		m.UpdatedAt = today
		store.trainings[m.ID] = m
	}
}

func seedIncidents(store *Store, today time.Time) {
	incidents := []*incident.Incident{
		{ID: "s1", EmployeeID: "1", Date: today.AddDate(0, 0, -40), Description: "Minor slip on wet floor, no injury.", Type: incident.TypeNearMiss},
		{ID: "s2", EmployeeID: "6", Date: today.AddDate(0, 0, -90), Description: "Incorrect chemical mixture led to paint batch disposal.", Type: incident.TypePropertyDamage},
		{ID: "s3", EmployeeID: "3", Date: today.AddDate(0, 0, -120), Description: "Minor cut on hand from exposed wiring.", Type: incident.TypeInjury},
	}

	for _, in := range incidents {
		in.CreatedAt = today
		store.incidents = append(store.incidents, in)
	}
}

func seedLedger(store *Store, today time.Time) {
	equipment := []*ppe.Equipment{
		{ID: "eq-tshirt", Name: "T-shirt", RenewalMonths: 12, Stock: 40},
		{ID: "eq-trousers", Name: "Trousers", RenewalMonths: 12, Stock: 35},
		{ID: "eq-boots", Name: "Safety Boots", RenewalMonths: 12, Stock: 18},
		{ID: "eq-jacket", Name: "Jacket", RenewalMonths: 24, Stock: 22},
		{ID: "eq-jersey", Name: "Jersey", RenewalMonths: 12, Stock: 25},
		{ID: "eq-winter-jacket", Name: "Winter Jacket", RenewalMonths: 36, Stock: 12},
		{ID: "eq-winter-shoes", Name: "Winter Shoes", RenewalMonths: 24, Stock: 14},
		{ID: "eq-locker-keys", Name: "Locker Keys", RenewalMonths: 0, Stock: 50},
		{ID: "eq-office-shirt", Name: "Office Shirt", RenewalMonths: 12, Stock: 30},
		{ID: "eq-longsleeve", Name: "Long-sleeve Shirt", RenewalMonths: 12, Stock: 28},
		{ID: "eq-mask-filters", Name: "Mask Filters", RenewalMonths: 3, Stock: 120},
		{ID: "eq-mask", Name: "Mask", RenewalMonths: 6, Stock: 45},
		{ID: "eq-glasses", Name: "Protective Glasses", RenewalMonths: 12, Stock: 33},
	}

	for _, eq := range equipment {
		eq.CreatedAt = today
		eq.UpdatedAt = today
		store.equipment[eq.ID] = eq
	}

	checkouts := []*ppe.Checkout{
		{ID: "ppe1", EmployeeID: "1", EquipmentID: "eq-boots", CheckoutDate: today.AddDate(0, 0, -60), Size: "10"},
		{ID: "ppe2", EmployeeID: "2", EquipmentID: "eq-jacket", CheckoutDate: today.AddDate(0, 0, -30), Size: "M"},
		{ID: "ppe3", EmployeeID: "6", EquipmentID: "eq-mask", CheckoutDate: today.AddDate(0, 0, -15)},
	}

	for _, c := range checkouts {
		c.CreatedAt = today
		c.UpdatedAt = today
		store.checkouts[c.ID] = c
	}
}
