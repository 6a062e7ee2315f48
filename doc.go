// Package stage is the core of a real-time 2D/3D engine runtime.
//
// # Overview
//
// The root package holds the value types shared by every subsystem
// (Vector3, Vector2, Color) and the package-wide logger. The engine itself
// is split into sub-packages:
//
//   - mesh: polygon meshes with cached, dirty-tracked render arrays,
//     procedural generators and a binary file format
//   - screen: flat z-sorted 2D compositing of screen entities
//   - scene: 3D entities, culling and the scene manager
//   - render: the renderer boundary and a hal-backed GPU implementation
//   - services: CoreServices, the per-context service locator that drives
//     the frame tick and relays platform input
//   - input, module, material, resource, timer, tween, sound, font and
//     config: the collaborators CoreServices owns or dispatches to
//
// # Quick Start
//
//	cs := services.New(services.WithRenderer(renderer))
//	cs.SetCore(core)
//
//	m := mesh.New(mesh.TriMesh)
//	if err := m.CreateSphere(1, 16, 24); err != nil {
//	    return err
//	}
//	sc := cs.NewScene()
//	sc.AddEntity(scene.NewEntity(m))
//
//	for running {
//	    if err := cs.Update(elapsed); err != nil {
//	        log.Printf("frame: %v", err)
//	    }
//	}
//
// # Logging
//
// stage is silent by default. Call [SetLogger] to route diagnostics to a
// [log/slog] handler.
package stage
