// Package models provides the shared data models for sipolgar.
//
// This package contains the user and personnel records exchanged with the
// backend, the closed enums used by the fitness calculators, and the
// catalogue types (organisational units, workouts, weight entries).
//
// # Enums
//
// Gender, fitness goal, activity level and theme are string types with a
// fixed set of constants. Each has an IsValid method and a Valid* helper
// listing the accepted values:
//
//	g := models.GenderMale
//	if g.IsValid() {
//	    fmt.Println(g.Label()) // "Laki-laki"
//	}
//
// # Profiles
//
// A [UserProfile] optionally carries a nested [Personel] record holding the
// biometric data. Partial updates are expressed as a [ProfileUpdate], whose
// pointer fields are applied only when set:
//
//	w := 70.0
//	patch := models.ProfileUpdate{Personel: &models.PersonelUpdate{BeratBadan: &w}}
//
// A personnel record is onboarding-complete when both height and weight are
// present and non-zero; see [Personel.OnboardingComplete].
package models
